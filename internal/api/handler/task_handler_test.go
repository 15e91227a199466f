package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
	"github.com/apiwiz/task-system/internal/core/query"
)

type stubTaskService struct {
	createFn     func(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error)
	updateFn     func(ctx context.Context, taskID string, in ports.UpdateTaskInput) (*domain.Task, error)
	deleteFn     func(ctx context.Context, taskID string) error
	listByUserFn func(ctx context.Context, in ports.ListTasksInput) (*query.Page[domain.Task], error)
}

func (s *stubTaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, in)
}

func (s *stubTaskService) Update(ctx context.Context, taskID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	return s.updateFn(ctx, taskID, in)
}

func (s *stubTaskService) Delete(ctx context.Context, taskID string) error {
	return s.deleteFn(ctx, taskID)
}

func (s *stubTaskService) ListByUser(ctx context.Context, in ports.ListTasksInput) (*query.Page[domain.Task], error) {
	return s.listByUserFn(ctx, in)
}

func sampleTask() *domain.Task {
	at := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:        "t1",
		Title:     "Write report",
		StartDate: at,
		DueDate:   at.Add(48 * time.Hour),
		Status:    domain.StatusPending,
		UserID:    "u1",
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestTaskCreateHandler(t *testing.T) {
	var got ports.CreateTaskInput
	h := NewTaskHandler(&stubTaskService{
		createFn: func(_ context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
			got = in
			return sampleTask(), nil
		},
	})

	c, rec := newContext(t, http.MethodPost, "/api/tasks/create", map[string]any{
		"title":      "Write report",
		"start_date": "2026-09-02T10:00:00Z",
		"due_date":   "2026-09-04T10:00:00Z",
		"user_id":    "u1",
	})
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Title != "Write report" || got.UserID != "u1" {
		t.Fatalf("unexpected input: %+v", got)
	}
	env := decodeEnvelope(t, rec)
	if !env.OK || env.Message != "Task created successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestTaskCreateHandler_MissingFields(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		createFn: func(context.Context, ports.CreateTaskInput) (*domain.Task, error) {
			t.Fatal("service must not be reached on invalid input")
			return nil, nil
		},
	})

	c, _ := newContext(t, http.MethodPost, "/api/tasks/create", map[string]any{
		"title": "no dates, no user",
	})
	assertHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestListByUserHandler_ParamsFlowThrough(t *testing.T) {
	var got ports.ListTasksInput
	h := NewTaskHandler(&stubTaskService{
		listByUserFn: func(_ context.Context, in ports.ListTasksInput) (*query.Page[domain.Task], error) {
			got = in
			return query.NewPage([]domain.Task{*sampleTask()}, in.Page, in.Size, 1), nil
		},
	})

	c, rec := newContext(t, http.MethodGet,
		"/api/tasks/user/u1?page=2&size=5&sortBy=due_date&sortDirection=desc&titleFilter=Write&dueDateFilter=2026-09-04&statusFilter=PENDING", nil)
	c.SetParamNames("userId")
	c.SetParamValues("u1")

	if err := h.ListByUser(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	if got.UserID != "u1" || got.Page != 2 || got.Size != 5 {
		t.Fatalf("unexpected paging input: %+v", got)
	}
	if got.SortBy != "due_date" || got.SortDirection != "desc" || got.TitleFilter != "Write" {
		t.Fatalf("unexpected filter input: %+v", got)
	}
	if got.DueDateFilter == nil || !got.DueDateFilter.Equal(time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date filter: %v", got.DueDateFilter)
	}
	if got.StatusFilter == nil || *got.StatusFilter != domain.StatusPending {
		t.Fatalf("unexpected status filter: %v", got.StatusFilter)
	}

	env := decodeEnvelope(t, rec)
	if env.Message != "Tasks found for user with ID: u1" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestListByUserHandler_Defaults(t *testing.T) {
	var got ports.ListTasksInput
	h := NewTaskHandler(&stubTaskService{
		listByUserFn: func(_ context.Context, in ports.ListTasksInput) (*query.Page[domain.Task], error) {
			got = in
			return query.NewPage([]domain.Task{*sampleTask()}, in.Page, in.Size, 1), nil
		},
	})

	c, _ := newContext(t, http.MethodGet, "/api/tasks/user/u1", nil)
	c.SetParamNames("userId")
	c.SetParamValues("u1")

	if err := h.ListByUser(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.SortBy != "id" || got.SortDirection != "asc" || got.Page != 0 || got.Size != 10 {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.DueDateFilter != nil || got.StatusFilter != nil || got.TitleFilter != "" {
		t.Fatalf("expected no filters, got %+v", got)
	}
}

func TestListByUserHandler_BadFilterValues(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		listByUserFn: func(context.Context, ports.ListTasksInput) (*query.Page[domain.Task], error) {
			t.Fatal("service must not be reached on invalid filters")
			return nil, nil
		},
	})

	for _, target := range []string{
		"/api/tasks/user/u1?dueDateFilter=04-09-2026",
		"/api/tasks/user/u1?dueDateFilter=not-a-date",
		"/api/tasks/user/u1?statusFilter=DONE",
		"/api/tasks/user/u1?statusFilter=pending",
	} {
		c, _ := newContext(t, http.MethodGet, target, nil)
		c.SetParamNames("userId")
		c.SetParamValues("u1")
		assertHTTPError(t, h.ListByUser(c), http.StatusBadRequest)
	}
}

func TestListByUserHandler_NoTasksPassThrough(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		listByUserFn: func(context.Context, ports.ListTasksInput) (*query.Page[domain.Task], error) {
			return nil, domain.ErrNoTasksFound
		},
	})

	c, _ := newContext(t, http.MethodGet, "/api/tasks/user/u1", nil)
	c.SetParamNames("userId")
	c.SetParamValues("u1")

	if err := h.ListByUser(c); !errors.Is(err, domain.ErrNoTasksFound) {
		t.Fatalf("expected ErrNoTasksFound, got %v", err)
	}
}

func TestTaskUpdateHandler_PartialBody(t *testing.T) {
	var got ports.UpdateTaskInput
	h := NewTaskHandler(&stubTaskService{
		updateFn: func(_ context.Context, _ string, in ports.UpdateTaskInput) (*domain.Task, error) {
			got = in
			return sampleTask(), nil
		},
	})

	c, _ := newContext(t, http.MethodPut, "/api/tasks/update/t1", map[string]any{
		"status": "COMPLETED",
	})
	c.SetParamNames("taskId")
	c.SetParamValues("t1")

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status == nil || *got.Status != domain.StatusCompleted {
		t.Fatalf("expected COMPLETED status, got %+v", got)
	}
	if got.Title != nil || got.Description != nil || got.DueDate != nil {
		t.Fatalf("absent fields must stay nil: %+v", got)
	}
}

func TestTaskUpdateHandler_BadStatus(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{
		updateFn: func(context.Context, string, ports.UpdateTaskInput) (*domain.Task, error) {
			t.Fatal("service must not be reached on invalid status")
			return nil, nil
		},
	})

	c, _ := newContext(t, http.MethodPut, "/api/tasks/update/t1", map[string]any{
		"status": "FINISHED",
	})
	c.SetParamNames("taskId")
	c.SetParamValues("t1")

	assertHTTPError(t, h.Update(c), http.StatusBadRequest)
}

func TestTaskDeleteHandler(t *testing.T) {
	var gotID string
	h := NewTaskHandler(&stubTaskService{
		deleteFn: func(_ context.Context, taskID string) error {
			gotID = taskID
			return nil
		},
	})

	c, rec := newContext(t, http.MethodDelete, "/api/tasks/delete/t1", nil)
	c.SetParamNames("taskId")
	c.SetParamValues("t1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotID != "t1" {
		t.Fatalf("expected t1, got %q", gotID)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Task deleted successfully" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
