package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrBackendUnavailable marks the generative backend as absent or failing; the
// orchestrator degrades to canned replies and never surfaces it to the user.
var ErrBackendUnavailable = errors.New("generative backend unavailable")

// Backend is the generative-text capability used for messages no rule matches.
type Backend interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

// BackendConfig controls backend construction.
type BackendConfig struct {
	Mode         string
	GeminiAPIKey string
	GeminiModel  string
	HTTPURL      string
}

// NewBackend resolves the configured mode. "auto" prefers Gemini when an API
// key is present, then an HTTP endpoint, then the disabled backend.
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
			return NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPBackend(cfg.HTTPURL), nil
		}
		return DisabledBackend{}, nil
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, errors.New("GEMINI_API_KEY is required for gemini backend mode")
		}
		return NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("AGENT_HTTP_URL is required for http backend mode")
		}
		return NewHTTPBackend(cfg.HTTPURL), nil
	case "none":
		return DisabledBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported agent backend mode %q", cfg.Mode)
	}
}

// DisabledBackend always reports unavailability so canned fallbacks apply.
type DisabledBackend struct{}

func (DisabledBackend) GenerateReply(context.Context, string) (string, error) {
	return "", ErrBackendUnavailable
}
