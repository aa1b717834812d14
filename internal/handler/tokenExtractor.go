package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetSessionToken returns the session token from the named cookie, falling back to a bearer token
// in the Authorization header.
func GetSessionToken(c *gin.Context, cookieName string) (string, error) {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token, nil
	}

	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		return "", errors.New("token not found in cookie or Authorization header")
	}

	return token, nil
}
