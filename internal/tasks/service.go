package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultListLimit = 100

// Service owns the task lifecycle: validation, id and timestamp assignment, and
// partial-update semantics. Persistence is delegated to the Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(title) > MaxTitleLength {
		return Task{}, &ValidationError{Field: "title", Reason: "must be at most 255 characters"}
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return Task{}, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}

	task := Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, offset, limit int) ([]Task, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, filter, offset, limit)
}

// Update applies only the supplied fields and stamps updated_at on success.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		if len(title) > MaxTitleLength {
			return Task{}, &ValidationError{Field: "title", Reason: "must be at most 255 characters"}
		}
		task.Title = title
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return Task{}, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
		}
		task.Priority = *req.Priority
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	now := time.Now().UTC()
	task.UpdatedAt = &now
	if err := s.store.Save(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *Service) MarkComplete(ctx context.Context, id string) (Task, error) {
	completed := true
	return s.Update(ctx, id, UpdateRequest{Completed: &completed})
}

func (s *Service) MarkIncomplete(ctx context.Context, id string) (Task, error) {
	completed := false
	return s.Update(ctx, id, UpdateRequest{Completed: &completed})
}

func (s *Service) ListByPriority(ctx context.Context, priority Priority) ([]Task, error) {
	if !priority.Valid() {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return s.store.List(ctx, Filter{Priority: priority}, 0, DefaultListLimit)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Task, error) {
	return s.store.List(ctx, Filter{Category: category}, 0, DefaultListLimit)
}

// ListOverdue returns incomplete tasks whose due date is strictly in the past.
func (s *Service) ListOverdue(ctx context.Context) ([]Task, error) {
	return s.store.Overdue(ctx, time.Now().UTC())
}
