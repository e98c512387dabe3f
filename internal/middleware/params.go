package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/nedirbay/project-management-own-version/internal/errors"
)

// UUIDParam parses the path parameter name. On failure it writes a 400
// response and returns false.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
