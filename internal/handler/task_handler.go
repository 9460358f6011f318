package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tasktracker/internal/model"
	"tasktracker/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasksQuery holds pagination parameters.
type ListTasksQuery struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title         string           `json:"title" validate:"required,min=1,max=255"`
	Description   *string          `json:"description" validate:"omitnil,max=255"`
	Status        model.TaskStatus `json:"status" validate:"omitempty,oneof=pending completed" enums:"pending,completed"`
	CompletedDate *time.Time       `json:"completed_date"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are left untouched;
// description and completed_date may be cleared with an explicit null.
type UpdateTaskRequest struct {
	Title         *string             `json:"title" validate:"omitnil,min=1,max=255"`
	Description   Nullable[string]    `json:"description" validate:"omitnil,max=255" swaggertype:"string"`
	Status        *model.TaskStatus   `json:"status" validate:"omitnil,oneof=pending completed" enums:"pending,completed"`
	CompletedDate Nullable[time.Time] `json:"completed_date" swaggertype:"string" format:"date-time"`
}

// Nullable records whether a JSON field was present, so that an
// explicit null can be told apart from an omitted field.
type Nullable[T any] struct {
	Value *T
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler. It only runs for keys present in the body.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) pointer() interface{} {
	return n.Value
}

// NullableValue is a validator custom type func. It hands the wrapped
// pointer to the validator so tags like omitnil and max apply to the value.
func NullableValue(field reflect.Value) interface{} {
	if n, ok := field.Interface().(interface{ pointer() interface{} }); ok {
		return n.pointer()
	}
	return nil
}

func (r UpdateTaskRequest) toPatch() model.TaskPatch {
	return model.TaskPatch{
		Title:            r.Title,
		Description:      r.Description.Value,
		DescriptionSet:   r.Description.Set,
		Status:           r.Status,
		CompletedDate:    r.CompletedDate.Value,
		CompletedDateSet: r.CompletedDate.Set,
	}
}

func parseTaskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid task id", "INVALID_UUID")
	}
	return id, nil
}

// List godoc
// @Summary List tasks
// @Description Superusers see every task, other users only their own.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {object} model.TaskPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	q := ListTasksQuery{Limit: service.DefaultPageLimit}
	if err := c.Bind(&q); err != nil {
		return badRequest("invalid pagination parameters", "INVALID_REQUEST")
	}

	if err := c.Validate(&q); err != nil {
		return validationFailed(err)
	}

	page, err := h.taskService.List(c.Request().Context(), CurrentUser(c), q.Skip, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a task by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), CurrentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// Create godoc
// @Summary Create a task owned by the caller
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	task, err := h.taskService.Create(c.Request().Context(), CurrentUser(c), model.TaskCreate{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		CompletedDate: req.CompletedDate,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	task, err := h.taskService.Update(c.Request().Context(), CurrentUser(c), id, req.toPatch())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), CurrentUser(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
