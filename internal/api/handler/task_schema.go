package handler

import "time"

// --- Request / Response types ---

type createTaskRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"  validate:"required"`
	DueDate     time.Time `json:"due_date"    validate:"required"`
	UserID      string    `json:"user_id"     validate:"required"`
}

// updateTaskRequest is a partial update: absent fields leave the stored
// value untouched.
type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// taskPageResponse is the page envelope for the list endpoint.
type taskPageResponse struct {
	Tasks         []taskResponse `json:"tasks"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalPages    int            `json:"total_pages"`
	TotalElements int64          `json:"total_elements"`
}
