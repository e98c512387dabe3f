package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// UserHandler serves account administration and user settings.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns active users.
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(actor, params)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(users, params, total, dto.ToUserDTO))
}

// Get returns one user.
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(actor, id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Create creates an account with an explicit role.
func (h *UserHandler) Create(c *gin.Context) {
	type CreateUserRequest struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Role     string `json:"role"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(actor, services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Update changes profile fields.
func (h *UserHandler) Update(c *gin.Context) {
	type UpdateUserRequest struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(actor, id, services.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Delete deactivates an account.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(actor, id); err != nil {
		apierrors.FromError(c, err)
		return
	}
	noContent(c)
}

// ChangeRole sets the global role of an account.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(actor, id, req.Role)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangePassword replaces an account's password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := middleware.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(actor, id, req.CurrentPassword, req.NewPassword); err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetSettings returns the caller's settings.
func (h *UserHandler) GetSettings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	settings, err := h.userService.GetSettings(actor)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsDTO(settings))
}

// UpdateSettings merges changes into the caller's settings.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	type UpdateSettingsRequest struct {
		Theme         *string                      `json:"theme"`
		Language      *string                      `json:"language"`
		Timezone      *string                      `json:"timezone"`
		DateFormat    *string                      `json:"date_format"`
		TimeFormat    *string                      `json:"time_format"`
		Notifications *models.NotificationSettings `json:"notifications"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.userService.UpdateSettings(actor, services.UpdateSettingsInput{
		Theme:         req.Theme,
		Language:      req.Language,
		Timezone:      req.Timezone,
		DateFormat:    req.DateFormat,
		TimeFormat:    req.TimeFormat,
		Notifications: req.Notifications,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsDTO(settings))
}
