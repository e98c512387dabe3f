package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/dto"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
	"github.com/nedirbay/project-management-own-version/internal/middleware"
	"github.com/nedirbay/project-management-own-version/internal/services"
)

// currentActor fetches the caller set by RequireAuth, answering 401 when missing
func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return actor, ok
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseDate accepts YYYY-MM-DD or RFC 3339
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dto.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// optionalUUID parses a query parameter that may be absent
func optionalUUID(c *gin.Context, names ...string) (*uuid.UUID, bool) {
	for _, name := range names {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+name)
			return nil, false
		}
		return &id, true
	}
	return nil, true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
