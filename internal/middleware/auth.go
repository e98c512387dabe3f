package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/auth"
	"github.com/nedirbay/project-management-own-version/internal/constants"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// bearerToken returns the token of an "Authorization: Bearer" header,
// falling back to the one stored in the session cookie.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	session := sessions.Default(c)
	if token, ok := session.Get(constants.SessionKeyToken).(string); ok {
		return token
	}
	return ""
}

// RequireAuth verifies the access token and stores the caller in the context
func RequireAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			apierrors.Unauthorized(c, err.Error())
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			apierrors.Unauthorized(c, "Invalid token subject")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyRole, claims.Role)
		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetActor returns the authenticated caller with its global role
func GetActor(c *gin.Context) (services.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Get(constants.ContextKeyRole)
	if !ok {
		return services.Actor{}, false
	}
	r, ok := role.(models.Role)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: r}, true
}
