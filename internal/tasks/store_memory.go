package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps tasks in a mutex-guarded map. Used when no DATABASE_URL is
// configured and by package tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Task
	seq     map[string]uint64
	nextSeq uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Task),
		seq:     make(map[string]uint64),
	}
}

func (s *MemoryStore) Insert(_ context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.records[task.ID] = task
	s.seq[task.ID] = s.nextSeq
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.records[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

func (s *MemoryStore) List(_ context.Context, filter Filter, offset, limit int) ([]Task, error) {
	s.mu.RLock()
	matched := make([]taskRow, 0, len(s.records))
	for id, task := range s.records {
		if matches(task, filter) {
			matched = append(matched, taskRow{task: task, seq: s.seq[id]})
		}
	}
	s.mu.RUnlock()

	return paginate(sortNewestFirst(matched), offset, limit), nil
}

func (s *MemoryStore) Save(_ context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[task.ID]; !ok {
		return ErrNotFound
	}
	s.records[task.ID] = task
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	delete(s.seq, id)
	return true, nil
}

func (s *MemoryStore) Overdue(_ context.Context, now time.Time) ([]Task, error) {
	s.mu.RLock()
	matched := make([]taskRow, 0)
	for id, task := range s.records {
		if task.Completed || task.DueDate == nil {
			continue
		}
		if task.DueDate.Before(now) {
			matched = append(matched, taskRow{task: task, seq: s.seq[id]})
		}
	}
	s.mu.RUnlock()

	return sortNewestFirst(matched), nil
}

func (s *MemoryStore) Close() error { return nil }

func matches(task Task, f Filter) bool {
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	if f.Category != "" && task.Category != f.Category {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			return false
		}
	}
	return true
}

type taskRow struct {
	task Task
	seq  uint64
}

// sortNewestFirst orders by created_at descending; the insertion sequence breaks
// ties so ordering stays deterministic for tasks created within the same tick.
func sortNewestFirst(rows []taskRow) []Task {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].task.CreatedAt.Equal(rows[j].task.CreatedAt) {
			return rows[i].task.CreatedAt.After(rows[j].task.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]Task, len(rows))
	for i, r := range rows {
		out[i] = r.task
	}
	return out
}

func paginate(all []Task, offset, limit int) []Task {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []Task{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
