package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/todo-system/internal/api/metrics"
	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

// TaskHandler handles task endpoints nested under a list.
type TaskHandler struct {
	tasks ports.TaskService
}

func NewTaskHandler(tasks ports.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:        t.ID,
		ListID:    t.ListID,
		Text:      t.Text,
		Date:      t.Date,
		Checked:   t.Checked,
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt,
	}
}

// List handles GET /api/lists/:list_id/tasks.
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.List(c.Request().Context(), c.Param("list_id"), userID)
	if err != nil {
		return countDenied(err, "task")
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/lists/:list_id/tasks.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	task, err := h.tasks.Create(c.Request().Context(), c.Param("list_id"), userID, ports.CreateTaskInput{
		Text:     req.Text,
		Date:     req.Date,
		Checked:  req.Checked,
		Priority: req.Priority,
	})
	if err != nil {
		return countDenied(err, "task")
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update handles PUT /api/lists/:list_id/tasks/:task_id with partial-update
// semantics: absent fields keep their prior value.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	task, err := h.tasks.Update(c.Request().Context(), c.Param("list_id"), c.Param("task_id"), userID, ports.TaskPatch{
		Text:     req.Text,
		Date:     req.Date,
		Checked:  req.Checked,
		Priority: req.Priority,
	})
	if err != nil {
		return countDenied(err, "task")
	}

	if req.Checked != nil && *req.Checked {
		metrics.TasksCompletedTotal.Inc()
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Toggle handles PATCH /api/lists/:list_id/tasks/:task_id/toggle.
func (h *TaskHandler) Toggle(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Toggle(c.Request().Context(), c.Param("list_id"), c.Param("task_id"), userID)
	if err != nil {
		return countDenied(err, "task")
	}

	if task.Checked {
		metrics.TasksCompletedTotal.Inc()
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /api/lists/:list_id/tasks/:task_id.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), c.Param("list_id"), c.Param("task_id"), userID); err != nil {
		return countDenied(err, "task")
	}
	return c.NoContent(http.StatusNoContent)
}
