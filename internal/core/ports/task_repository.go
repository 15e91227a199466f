package ports

import (
	"context"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/query"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// Query executes a composed filter with its sort and page parameters.
	// An empty result is returned as an empty page, never an error.
	Query(ctx context.Context, q query.Query) (*query.Page[domain.Task], error)
}
