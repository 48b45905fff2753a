package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestService() *Service {
	return NewService(NewMemoryStore())
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	svc := newTestService()
	task, err := svc.Create(context.Background(), CreateRequest{Title: "  write report  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID == "" {
		t.Fatalf("task ID should not be empty")
	}
	if task.Title != "write report" {
		t.Fatalf("Title = %q, want trimmed title", task.Title)
	}
	if task.Priority != PriorityMedium {
		t.Fatalf("Priority = %q, want default medium", task.Priority)
	}
	if task.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt should be set")
	}
	if task.UpdatedAt != nil {
		t.Fatalf("UpdatedAt = %v, want unset on create", task.UpdatedAt)
	}
	if task.Completed {
		t.Fatalf("Completed should default to false")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"empty title", CreateRequest{Title: "   "}},
		{"overlong title", CreateRequest{Title: strings.Repeat("x", MaxTitleLength+1)}},
		{"bad priority", CreateRequest{Title: "ok", Priority: "urgent"}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: error = %v, want ValidationError", tc.name, err)
		}
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc := newTestService()
	due := time.Now().UTC().Add(24 * time.Hour)
	created, err := svc.Create(context.Background(), CreateRequest{
		Title:       "buy groceries",
		Description: "milk and eggs",
		Priority:    PriorityHigh,
		Category:    "personal",
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "buy groceries" || got.Description != "milk and eggs" ||
		got.Priority != PriorityHigh || got.Category != "personal" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("DueDate = %v, want %v", got.DueDate, due)
	}
}

func TestUnknownIDsReportNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	title := "t"
	if _, err := svc.Update(ctx, "nope", UpdateRequest{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	found, err := svc.Delete(ctx, "nope")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if found {
		t.Fatalf("Delete() found = true, want false")
	}
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateRequest{Title: "initial", Description: "keep me"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	title := "renamed"
	first, err := svc.Update(ctx, created.ID, UpdateRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if first.UpdatedAt == nil {
		t.Fatalf("UpdatedAt should be set after update")
	}
	if first.UpdatedAt.Before(created.CreatedAt) {
		t.Fatalf("UpdatedAt %v before CreatedAt %v", first.UpdatedAt, created.CreatedAt)
	}

	priority := PriorityLow
	completed := true
	second, err := svc.Update(ctx, created.ID, UpdateRequest{Priority: &priority, Completed: &completed})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Disjoint edits union; description was never touched.
	if second.Title != "renamed" || second.Priority != PriorityLow || !second.Completed {
		t.Fatalf("union of edits missing: %+v", second)
	}
	if second.Description != "keep me" {
		t.Fatalf("Description = %q, want untouched original", second.Description)
	}
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateRequest{Title: "initial"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := " "
	var verr *ValidationError
	if _, err := svc.Update(ctx, created.ID, UpdateRequest{Title: &empty}); !errors.As(err, &verr) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}
	bad := Priority("critical")
	if _, err := svc.Update(ctx, created.ID, UpdateRequest{Priority: &bad}); !errors.As(err, &verr) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}

	// A rejected update must not touch the stored record.
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "initial" || got.UpdatedAt != nil {
		t.Fatalf("record mutated by rejected update: %+v", got)
	}
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateRequest{Title: "doomed"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := svc.Delete(ctx, created.ID)
	if err != nil || !found {
		t.Fatalf("first Delete() = (%v, %v), want (true, nil)", found, err)
	}
	found, err = svc.Delete(ctx, created.ID)
	if err != nil || found {
		t.Fatalf("second Delete() = (%v, %v), want (false, nil)", found, err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		task, err := svc.Create(ctx, CreateRequest{Title: title})
		if err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
		ids = append(ids, task.ID)
	}

	all, err := svc.List(ctx, Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if all[i].ID != want {
			t.Fatalf("all[%d].ID = %q, want %q (newest first)", i, all[i].ID, want)
		}
	}
}

func TestListCompletedFilterReturnsStrictSubset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	done, err := svc.Create(ctx, CreateRequest{Title: "done"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{Title: "pending"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.MarkComplete(ctx, done.ID); err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}

	completed := true
	got, err := svc.List(ctx, Filter{Completed: &completed}, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != done.ID || !got[0].Completed {
		t.Fatalf("completed filter result = %+v, want only the completed task", got)
	}
}

func TestListSearchMatchesTitleOrDescription(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateRequest{Title: "Refactor Parser"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{Title: "misc", Description: "parser cleanup notes"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{Title: "unrelated"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.List(ctx, Filter{Search: "PARSER"}, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 case-insensitive matches", len(got))
	}
}

func TestListPagination(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, CreateRequest{Title: "task"}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page, err := svc.List(ctx, Filter{}, 1, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}

	empty, err := svc.List(ctx, Filter{}, 10, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("len(empty) = %d, want 0 past the end", len(empty))
	}
}

func TestListOverdue(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	overdue, err := svc.Create(ctx, CreateRequest{Title: "late", DueDate: &past})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{Title: "upcoming", DueDate: &future}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	doneLate, err := svc.Create(ctx, CreateRequest{Title: "late but done", DueDate: &past})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.MarkComplete(ctx, doneLate.ID); err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}

	got, err := svc.ListOverdue(ctx)
	if err != nil {
		t.Fatalf("ListOverdue() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != overdue.ID {
		t.Fatalf("ListOverdue() = %+v, want only the late incomplete task", got)
	}
}

func TestListByPriorityAndCategory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateRequest{Title: "a", Priority: PriorityHigh, Category: "work"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{Title: "b", Priority: PriorityLow, Category: "personal"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	high, err := svc.ListByPriority(ctx, PriorityHigh)
	if err != nil {
		t.Fatalf("ListByPriority() error = %v", err)
	}
	if len(high) != 1 || high[0].Priority != PriorityHigh {
		t.Fatalf("ListByPriority() = %+v", high)
	}

	work, err := svc.ListByCategory(ctx, "work")
	if err != nil {
		t.Fatalf("ListByCategory() error = %v", err)
	}
	if len(work) != 1 || work[0].Category != "work" {
		t.Fatalf("ListByCategory() = %+v", work)
	}
}

func TestMarkIncomplete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateRequest{Title: "toggle"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.MarkComplete(ctx, created.ID); err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}
	got, err := svc.MarkIncomplete(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkIncomplete() error = %v", err)
	}
	if got.Completed {
		t.Fatalf("Completed = true, want false after MarkIncomplete")
	}
}
