package server_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/internal/server"
)

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGetEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine, router := server.GetEngine(slog.Default(), "/guild")
	router.GET("/api/fail", func(c *gin.Context) {
		_ = c.Error(errdef.NewNotFound("failed to find member"))
	})

	t.Run("Health", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/guild/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"up"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(middleware.CorrelationIDHeader))
	})

	t.Run("Docs", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/guild/docs")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "redoc")
	})

	t.Run("SwaggerDefinition", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/guild/swagger.yaml")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/api/events/{id}/participants")
	})

	t.Run("ErrorHandler", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/guild/api/fail")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "failed to find member", w.Body.String())
	})
}

func TestServeStatic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>dashboard</html>"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log('guild')"), 0o600))

	engine, _ := server.GetEngine(slog.Default(), "")
	server.ServeStatic(engine, "", dir)

	t.Run("File", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/assets/app.js")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console.log('guild')", w.Body.String())
	})

	t.Run("ClientRoute", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/rankings")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>dashboard</html>", w.Body.String())
	})

	t.Run("UnknownAPIRoute", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/unknown")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BasePath", func(t *testing.T) {
		engine, _ := server.GetEngine(slog.Default(), "/guild")
		server.ServeStatic(engine, "/guild", dir)

		w := serve(engine, http.MethodGet, "/guild/api/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), "dashboard")

		w = serve(engine, http.MethodGet, "/guild/auth/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = serve(engine, http.MethodGet, "/guild/assets/app.js")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console.log('guild')", w.Body.String())

		w = serve(engine, http.MethodGet, "/guild/rankings")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>dashboard</html>", w.Body.String())
	})
}
