package event

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func NewHandler(eventService eventService) Handler {
	return Handler{eventService}
}

type Handler struct {
	eventService eventService
}

type eventService interface {
	Find(ctx context.Context, idOrSlug string) (*model.Event, error)
	FindAll(ctx context.Context) ([]model.Event, error)
	FindActive(ctx context.Context) ([]model.Event, error)
	Participants(ctx context.Context, eventID string) ([]model.EventParticipation, error)
}

func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /api/events listEvents
	//
	// List events
	//
	// List every event of the catalog
	//
	// responses:
	//   200: []Event
	events, err := h.eventService.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h Handler) FindActive(c *gin.Context) {
	// swagger:route GET /api/events/active listActiveEvents
	//
	// List active events
	//
	// List the events which are currently running
	//
	// responses:
	//   200: []Event
	events, err := h.eventService.FindActive(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /api/events/{id} findEvent
	//
	// Find event
	//
	// Find an event by its id or slug
	//
	// responses:
	//   200: Event
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Find(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h Handler) Participants(c *gin.Context) {
	// swagger:route GET /api/events/{id}/participants listEventParticipants
	//
	// List participants
	//
	// List the check-ins of the current or last run of an event
	//
	// responses:
	//   200: []EventParticipation
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	participations, err := h.eventService.Participants(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, participations)
}
