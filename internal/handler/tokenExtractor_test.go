package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSessionToken(t *testing.T) {
	newContext := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		return c
	}

	t.Run("Cookie", func(t *testing.T) {
		c := newContext()
		c.Request.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
		c.Request.Header.Set("Authorization", "Bearer from-header")

		token, err := GetSessionToken(c, "session")

		require.NoError(t, err)
		assert.Equal(t, "from-cookie", token)
	})

	t.Run("Header", func(t *testing.T) {
		c := newContext()
		c.Request.Header.Set("Authorization", "Bearer from-header")

		token, err := GetSessionToken(c, "session")

		require.NoError(t, err)
		assert.Equal(t, "from-header", token)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := GetSessionToken(newContext(), "session")

		assert.Error(t, err)
	})
}
