package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// WorkspaceHandler serves workspaces and their members.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

type memberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// List returns the workspaces visible to the caller.
func (h *WorkspaceHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	workspaces, total, err := h.workspaceService.List(actor, params)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(workspaces, params, total, dto.ToWorkspaceDTO))
}

// Get returns a workspace with its members.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.workspaceService.Get(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceDetailDTO(detail))
}

// Create creates a workspace administered by the caller.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	type CreateWorkspaceRequest struct {
		Name        string      `json:"name" binding:"required"`
		Description string      `json:"description"`
		Color       string      `json:"color"`
		Icon        string      `json:"icon"`
		MemberIDs   []uuid.UUID `json:"member_ids"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req CreateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.workspaceService.Create(actor, services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkspaceDetailDTO(detail))
}

// Update applies a partial update.
func (h *WorkspaceHandler) Update(c *gin.Context) {
	type UpdateWorkspaceRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		Color       *string    `json:"color"`
		Icon        *string    `json:"icon"`
		AdminID     *uuid.UUID `json:"admin_id"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.workspaceService.Update(actor, id, services.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		AdminID:     req.AdminID,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceDetailDTO(detail))
}

// Delete soft deletes a workspace.
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workspaceService.Delete(actor, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// ListMembers lists workspace members.
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.workspaceService.ListMembers(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Map(members, dto.ToWorkspaceMemberDTO))
}

// AddMember adds a user to a workspace.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
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

	member, err := h.workspaceService.AddMember(actor, id, req.UserID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkspaceMemberDTO(*member))
}

// RemoveMember removes a user from a workspace.
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
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

	if err := h.workspaceService.RemoveMember(actor, id, userID); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}
