package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// TaskHandler serves tasks and their subtasks, comments and attachments.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type userIDsRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

// ListTasks returns every task the caller can see, with subtask counts.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	assigneeID, ok := optionalUUID(c, "assignee_id", "assigneeId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(actor, services.ListTasksInput{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssigneeID: assigneeID,
		Page:       params,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(tasks, params, total, dto.ToTaskSummaryDTO))
}

// ListMine returns tasks the caller created or is assigned to.
func (h *TaskHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListMine(actor, services.ListTasksInput{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     params,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(tasks, params, total, dto.ToTaskDTO))
}

// GetTask returns a task with subtasks, comments and attachments.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.taskService.Get(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(detail))
}

// CreateTask creates a task at the end of its board column.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		ProjectID      uuid.UUID   `json:"project_id" binding:"required"`
		Title          string      `json:"title" binding:"required"`
		Description    string      `json:"description"`
		Status         string      `json:"status"`
		Priority       string      `json:"priority"`
		DueDate        *time.Time  `json:"due_date"`
		EstimatedHours *float64    `json:"estimated_hours"`
		Tags           []string    `json:"tags"`
		AssigneeIDs    []uuid.UUID `json:"assignee_ids"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(actor, services.CreateTaskInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
		AssigneeIDs:    req.AssigneeIDs,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title          *string    `json:"title"`
		Description    *string    `json:"description"`
		Status         *string    `json:"status"`
		Priority       *string    `json:"priority"`
		DueDate        *time.Time `json:"due_date"`
		ClearDueDate   bool       `json:"clear_due_date"`
		EstimatedHours *float64   `json:"estimated_hours"`
		ActualHours    *float64   `json:"actual_hours"`
		Tags           *[]string  `json:"tags"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(actor, id, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		ClearDueDate:   req.ClearDueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Tags:           req.Tags,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus moves a task to the end of another column.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	type StatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateStatus(actor, id, req.Status)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateOrder places a task at a position, optionally in another column.
func (h *TaskHandler) UpdateOrder(c *gin.Context) {
	type OrderRequest struct {
		Status string `json:"status"`
		Order  *int   `json:"order" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateOrder(actor, id, req.Status, *req.Order)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask soft deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(actor, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// AssignTask assigns users to a task.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	h.changeAssignees(c, h.taskService.AssignUsers)
}

// UnassignTask removes users from a task.
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	h.changeAssignees(c, h.taskService.UnassignUsers)
}

func (h *TaskHandler) changeAssignees(c *gin.Context, apply func(services.Actor, uuid.UUID, []uuid.UUID) (*models.Task, error)) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req userIDsRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := apply(actor, id, req.UserIDs)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}
