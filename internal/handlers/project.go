package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// ProjectHandler serves projects, their members and their task boards.
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// List returns visible projects, optionally narrowed to one workspace.
func (h *ProjectHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	workspaceID, ok := optionalUUID(c, "workspace_id", "workspaceId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.List(actor, services.ListProjectsInput{
		WorkspaceID: workspaceID,
		Status:      c.Query("status"),
		Page:        params,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(projects, params, total, dto.ToProjectDTO))
}

// Get returns a project with its members and task counters.
func (h *ProjectHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.projectService.Get(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(detail))
}

// Create creates a project in a workspace.
func (h *ProjectHandler) Create(c *gin.Context) {
	type CreateProjectRequest struct {
		WorkspaceID uuid.UUID   `json:"workspace_id" binding:"required"`
		Name        string      `json:"name" binding:"required"`
		Description string      `json:"description"`
		Status      string      `json:"status"`
		Priority    string      `json:"priority"`
		StartDate   *time.Time  `json:"start_date"`
		EndDate     *time.Time  `json:"end_date"`
		Color       string      `json:"color"`
		Tags        []string    `json:"tags"`
		MemberIDs   []uuid.UUID `json:"member_ids"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.projectService.Create(actor, services.CreateProjectInput{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Color:       req.Color,
		Tags:        req.Tags,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectDetailDTO(detail))
}

// Update applies a partial update.
func (h *ProjectHandler) Update(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name         *string    `json:"name"`
		Description  *string    `json:"description"`
		Status       *string    `json:"status"`
		Priority     *string    `json:"priority"`
		StartDate    *time.Time `json:"start_date"`
		EndDate      *time.Time `json:"end_date"`
		ClearEndDate bool       `json:"clear_end_date"`
		Progress     *int       `json:"progress"`
		Color        *string    `json:"color"`
		Tags         *[]string  `json:"tags"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.projectService.Update(actor, id, services.UpdateProjectInput{
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ClearEndDate: req.ClearEndDate,
		Progress:     req.Progress,
		Color:        req.Color,
		Tags:         req.Tags,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(detail))
}

// UpdateProgress sets the completion percentage.
func (h *ProjectHandler) UpdateProgress(c *gin.Context) {
	type ProgressRequest struct {
		Progress *int `json:"progress" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req ProgressRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.projectService.UpdateProgress(actor, id, *req.Progress)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(detail))
}

// Delete soft deletes a project.
func (h *ProjectHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(actor, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// ListMembers lists project members.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(members, dto.ToProjectMemberDTO))
}

// AddMember adds a workspace member to a project.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req memberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.projectService.AddMember(actor, id, req.UserID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// RemoveMember removes a user from a project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.UUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(actor, id, userID); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// ListTasks returns the project's board in column order.
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	assigneeID, ok := optionalUUID(c, "assignee_id", "assigneeId")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListByProject(actor, id, services.ListTasksInput{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssigneeID: assigneeID,
		Page:       params,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(tasks, params, total, dto.ToTaskDTO))
}

// SuggestTasks drafts tasks from free text with the AI service. Nothing is saved.
func (h *ProjectHandler) SuggestTasks(c *gin.Context) {
	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req SuggestRequest
	if !bindJSON(c, &req) {
		return
	}

	drafts, err := h.taskService.Suggest(c.Request.Context(), actor, id, req.Text)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.Map(drafts, dto.ToTaskDraftDTO),
	})
}
