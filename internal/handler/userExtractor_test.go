package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func TestGetUserFromContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	user := &model.User{ID: "id", DiscordID: "123", Username: "ShadowHunter"}

	SetUserOnContext(c, user)

	u, err := GetUserFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, user, u)

	fromRequest, ok := model.GetUserFromContext(c.Request.Context())
	require.True(t, ok, "want user on the request context")
	assert.Equal(t, "ShadowHunter", fromRequest.Username)
}

func TestGetUserFromContext_NoUser(t *testing.T) {
	c := &gin.Context{}

	_, err := GetUserFromContext(c)

	assert.True(t, errdef.IsUnauthorized(err))
}
