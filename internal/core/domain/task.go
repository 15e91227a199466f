package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus maps a raw string to a TaskStatus. Matching is case-exact.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

var ErrTaskNotFound = errors.New("task not found")
var ErrNoTasksFound = errors.New("no tasks found")
var ErrDateInvariant = errors.New("invalid task dates")
var ErrForbidden = errors.New("access forbidden")

// Task is the core aggregate. Every task belongs to exactly one user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	DueDate     time.Time  `json:"due_date"`
	Status      TaskStatus `json:"status"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidateTaskDates enforces the creation invariant: the start date must not
// be in the past and the due date must not precede the start date.
func ValidateTaskDates(start, due, now time.Time) error {
	if start.Before(now) || due.Before(start) {
		return ErrDateInvariant
	}
	return nil
}
