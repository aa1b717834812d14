package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

const userKey = "user"

// SetUserOnContext stores the authenticated user on both the gin and the request context.
func SetUserOnContext(c *gin.Context, user *model.User) {
	c.Set(userKey, user)
	c.Request = c.Request.WithContext(model.NewContextWithUser(c.Request.Context(), user))
}

// GetUserFromContext returns the user set by the authentication middleware.
func GetUserFromContext(c *gin.Context) (*model.User, error) {
	userData, exists := c.Get(userKey)
	if !exists {
		return nil, errdef.NewUnauthorized("user not found on context")
	}

	user, ok := userData.(*model.User)
	if !ok {
		return nil, errdef.NewUnauthorized("failed to parse user data")
	}
	return user, nil
}
