package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
	"github.com/apiwiz/task-system/internal/core/query"
)

// TaskService implements the task use-cases.
type TaskService struct {
	tasks ports.TaskRepository
	users ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
	now   func() time.Time
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, audit: audit, log: log, now: time.Now}
}

// Create validates the date invariant and persists a new PENDING task for the
// target user.
func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	owner, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := domain.ValidateTaskDates(in.StartDate, in.DueDate, now); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Status:      domain.StatusPending,
		UserID:      owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	s.log.Info().Str("task_id", created.ID).Str("user_id", owner.ID).Msg("task created")
	s.audit.Record(ports.AuditEvent{Action: ports.AuditTaskCreated, ActorEmail: owner.Email, TargetID: created.ID, At: now})

	return created, nil
}

// Update applies only the fields present in the partial payload, leaving the
// rest of the task untouched.
func (s *TaskService) Update(ctx context.Context, taskID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Msg("task updated")
	s.audit.Record(ports.AuditEvent{Action: ports.AuditTaskUpdated, TargetID: task.ID, At: task.UpdatedAt})

	return task, nil
}

// Delete removes a task outright. There is no tombstone.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.log.Info().Str("task_id", task.ID).Msg("task deleted")
	s.audit.Record(ports.AuditEvent{Action: ports.AuditTaskDeleted, TargetID: task.ID, At: s.now().UTC()})

	return nil
}

// ListByUser composes the owner predicate with any provided filters and runs
// the query. An empty page is reported as ErrNoTasksFound; the query layer
// itself treats emptiness as a normal result.
func (s *TaskService) ListByUser(ctx context.Context, in ports.ListTasksInput) (*query.Page[domain.Task], error) {
	b := query.NewBuilder().
		OwnedBy(in.UserID).
		TitleContains(in.TitleFilter).
		SortBy(in.SortBy, in.SortDirection).
		Paginate(in.Page, in.Size)
	if in.DueDateFilter != nil {
		b.DueOn(*in.DueDateFilter)
	}
	if in.StatusFilter != nil {
		b.StatusIs(string(*in.StatusFilter))
	}

	page, err := s.tasks.Query(ctx, b.Build())
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Msg("task query failed")
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, domain.ErrNoTasksFound
	}
	return page, nil
}
