package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPBackend forwards prompts to a compatible HTTP endpoint. The endpoint may
// answer with JSON carrying a text-ish field or with a plain-text body.
type HTTPBackend struct {
	url    string
	client *http.Client
}

func NewHTTPBackend(url string) *HTTPBackend {
	return &HTTPBackend{
		url: strings.TrimSpace(url),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (b *HTTPBackend) GenerateReply(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("%w: status %d: %s", ErrBackendUnavailable, res.StatusCode, string(body))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrBackendUnavailable, err)
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		if text := extractText(obj); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("%w: no text in response", ErrBackendUnavailable)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrBackendUnavailable)
	}
	return text, nil
}

func extractText(obj map[string]any) string {
	for _, k := range []string{"response", "text", "output", "message"} {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
