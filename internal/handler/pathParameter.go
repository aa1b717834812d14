package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
)

// GetPathParameter returns the trimmed, non-empty value of the path parameter. An empty value is
// pushed onto the context as a bad request error.
func GetPathParameter(c *gin.Context, parameter string) (string, bool) {
	value := strings.TrimSpace(c.Param(parameter))
	if value == "" {
		_ = c.Error(errdef.NewBadRequest("path parameter %q is required", parameter))
		return "", false
	}
	return value, true
}
