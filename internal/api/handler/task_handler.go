package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/apiwiz/task-system/internal/api/metrics"
	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
)

// dueDateLayout is the wire format of the dueDateFilter query parameter.
// Only the date component matters to the filter.
const dueDateLayout = "2006-01-02"

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /api/tasks/create.
//
// @Summary      Create a task for a user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /api/tasks/create [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		UserID:      req.UserID,
	})
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.Inc()

	return respond(c, http.StatusCreated, "Task created successfully", toTaskResponse(task))
}

// ListByUser handles GET /api/tasks/user/:userId.
//
// @Summary      List a user's tasks with optional filters
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        userId         path      string  true   "Owner user id"
// @Param        page           query     int     false  "Zero-based page index"  default(0)
// @Param        size           query     int     false  "Page size"              default(10)
// @Param        sortBy         query     string  false  "Sort field"             default(id)
// @Param        sortDirection  query     string  false  "asc or desc"            default(asc)
// @Param        titleFilter    query     string  false  "Title substring"
// @Param        dueDateFilter  query     string  false  "Due date (2006-01-02)"
// @Param        statusFilter   query     string  false  "PENDING, IN_PROGRESS, or COMPLETED"
// @Success      200            {object}  envelope
// @Failure      400            {object}  envelope
// @Failure      403            {object}  envelope
// @Failure      404            {object}  envelope
// @Router       /api/tasks/user/{userId} [get]
func (h *TaskHandler) ListByUser(c echo.Context) error {
	userID := c.Param("userId")

	in := ports.ListTasksInput{
		UserID:        userID,
		TitleFilter:   c.QueryParam("titleFilter"),
		SortBy:        queryDefault(c, "sortBy", "id"),
		SortDirection: queryDefault(c, "sortDirection", "asc"),
		Page:          queryInt(c, "page", 0),
		Size:          queryInt(c, "size", 10),
	}

	if raw := c.QueryParam("dueDateFilter"); raw != "" {
		due, err := time.Parse(dueDateLayout, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "dueDateFilter must be formatted as "+dueDateLayout)
		}
		in.DueDateFilter = &due
	}

	if raw := c.QueryParam("statusFilter"); raw != "" {
		status, ok := domain.ParseTaskStatus(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "statusFilter must be one of PENDING, IN_PROGRESS, COMPLETED")
		}
		in.StatusFilter = &status
	}

	timer := prometheus.NewTimer(metrics.TaskQueryDuration)
	page, err := h.service.ListByUser(c.Request().Context(), in)
	timer.ObserveDuration()
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, fmt.Sprintf("Tasks found for user with ID: %s", userID), toTaskPageResponse(page))
}

// Update handles PUT /api/tasks/update/:taskId.
//
// @Summary      Partially update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string             true  "Task id"
// @Param        body    body      updateTaskRequest  true  "Fields to update"
// @Success      200     {object}  envelope
// @Failure      400     {object}  envelope
// @Failure      404     {object}  envelope
// @Router       /api/tasks/update/{taskId} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status, ok := domain.ParseTaskStatus(*req.Status)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "status must be one of PENDING, IN_PROGRESS, COMPLETED")
		}
		in.Status = &status
	}

	task, err := h.service.Update(c.Request().Context(), c.Param("taskId"), in)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Task updated successfully", toTaskResponse(task))
}

// Delete handles DELETE /api/tasks/delete/:taskId.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  envelope
// @Failure      404     {object}  envelope
// @Router       /api/tasks/delete/{taskId} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("taskId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task deleted successfully", nil)
}

func queryDefault(c echo.Context, name, fallback string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return fallback
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
