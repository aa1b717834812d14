package activity

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func NewHandler(activityService activityService, broker broker) Handler {
	return Handler{
		activityService: activityService,
		broker:          broker,
	}
}

type Handler struct {
	activityService activityService
	broker          broker
}

type activityService interface {
	FindRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

type broker interface {
	Subscribe() (string, <-chan model.Activity)
	Unsubscribe(id string)
}

type listRequest struct {
	Limit int `form:"limit,default=10"`
}

func (h Handler) List(c *gin.Context) {
	// swagger:route GET /api/activities listActivities
	//
	// List activities
	//
	// List the most recent activities of the guild, newest first
	//
	// responses:
	//   200: []Activity
	//   400: Error
	var request listRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	activities, err := h.activityService.FindRecent(c.Request.Context(), request.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

func (h Handler) Stream(c *gin.Context) {
	// swagger:route GET /api/activities/stream streamActivities
	//
	// Stream activities
	//
	// Stream activities as server-sent events as they're recorded
	//
	// responses:
	//   200: Stream
	id, activities := h.broker.Subscribe()
	defer h.broker.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	// send the headers right away, the first activity might take a while
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case activity, ok := <-activities:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Id:    activity.ID,
				Event: string(activity.Type),
				Data:  activity,
			})
			return true
		}
	})
}
