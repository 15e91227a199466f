package handler

import (
	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/query"
)

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   t.StartDate.UTC(),
		DueDate:     t.DueDate.UTC(),
		Status:      string(t.Status),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func toTaskPageResponse(p *query.Page[domain.Task]) taskPageResponse {
	items := make([]taskResponse, len(p.Items))
	for i := range p.Items {
		items[i] = toTaskResponse(&p.Items[i])
	}
	return taskPageResponse{
		Tasks:         items,
		Page:          p.PageIndex,
		Size:          p.PageSize,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
}
