package ports

import (
	"context"
	"time"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/query"
)

// CreateTaskInput carries all data needed to create a task on behalf of a user.
type CreateTaskInput struct {
	Title       string
	Description string
	StartDate   time.Time
	DueDate     time.Time
	UserID      string
}

// UpdateTaskInput is a partial update: nil fields leave the stored value untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *domain.TaskStatus
}

// ListTasksInput carries the filter, sort, and page parameters for listing a
// user's tasks. Optional filters are skipped when unset.
type ListTasksInput struct {
	UserID        string
	TitleFilter   string
	DueDateFilter *time.Time
	StatusFilter  *domain.TaskStatus
	SortBy        string
	SortDirection string
	Page          int
	Size          int
}

// TaskService defines the task use-cases.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, taskID string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, taskID string) error
	// ListByUser returns a page of the user's tasks. An empty page is
	// surfaced as domain.ErrNoTasksFound.
	ListByUser(ctx context.Context, in ListTasksInput) (*query.Page[domain.Task], error)
}
