package tasks

import (
	"context"
	"time"
)

// Store persists task records. Implementations must return results ordered by
// created_at descending and report unknown ids with ErrNotFound.
type Store interface {
	Insert(ctx context.Context, task Task) error
	Get(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter Filter, offset, limit int) ([]Task, error)
	Save(ctx context.Context, task Task) error
	Delete(ctx context.Context, id string) (bool, error)
	Overdue(ctx context.Context, now time.Time) ([]Task, error)
	Close() error
}
