package tasks

import (
	"context"
	"strings"
)

// NewStore selects the Postgres store when a database URL is configured and the
// in-memory store otherwise.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
