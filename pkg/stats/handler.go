package stats

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewHandler(statsService statsService) Handler {
	return Handler{statsService}
}

type Handler struct {
	statsService statsService
}

type statsService interface {
	Get(ctx context.Context) (Stats, error)
}

func (h Handler) Get(c *gin.Context) {
	// swagger:route GET /api/stats getStats
	//
	// Dashboard statistics
	//
	// responses:
	//   200: Stats
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
