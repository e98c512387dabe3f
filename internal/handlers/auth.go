package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a Member account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	if !saveSession(c, session.Token) {
		return
	}
	c.JSON(http.StatusCreated, dto.ToAuthResponse(session))
}

// Login authenticates a user, returns a token and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	if !saveSession(c, session.Token) {
		return
	}
	c.JSON(http.StatusOK, dto.ToAuthResponse(session))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.CurrentUser(userID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func saveSession(c *gin.Context, token string) bool {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
