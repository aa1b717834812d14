package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redocMiddleware "github.com/go-openapi/runtime/middleware"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/pkg/health"
	"github.com/talitamaia0609-debug/siter/swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "siter"

// GetEngine creates an engine with the middleware every route needs. Routes are expected to be
// registered on the returned group, which is rooted at basePath.
func GetEngine(logger *slog.Logger, basePath string) (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization", middleware.CorrelationIDHeader)
	r.Use(cors.New(corsConfig))

	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	router := r.Group(basePath)

	redoc(router, basePath)

	router.GET("/health", health.Health)

	return r, router
}

func redoc(router *gin.RouterGroup, basePath string) {
	router.GET("/swagger.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", swagger.Spec)
	})

	redocOpts := redocMiddleware.RedocOpts{
		BasePath: basePath,
		SpecURL:  "./swagger.yaml",
	}
	redocHandler := redocMiddleware.Redoc(redocOpts, nil)
	router.GET("/docs", gin.WrapH(redocHandler))
}

// ServeStatic serves the files in dir under basePath. Paths which aren't API routes and don't name
// a file are answered with index.html so the client side router can take over.
func ServeStatic(r *gin.Engine, basePath, dir string) {
	basePath = strings.TrimSuffix(basePath, "/")
	apiPrefix, authPrefix := basePath+"/api/", basePath+"/auth/"
	index := filepath.Join(dir, "index.html")
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || strings.HasPrefix(path, apiPrefix) || strings.HasPrefix(path, authPrefix) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		path = strings.TrimPrefix(path, basePath)

		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	})
}
