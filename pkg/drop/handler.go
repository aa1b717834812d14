package drop

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func NewHandler(dropService dropService) Handler {
	return Handler{dropService}
}

type Handler struct {
	dropService dropService
}

type dropService interface {
	Create(ctx context.Context, drop *model.ItemDrop, registeredBy model.Actor) error
	FindAll(ctx context.Context) ([]model.ItemDrop, error)
}

// CreateItemDropRequest
// swagger:model CreateItemDropRequest
type CreateItemDropRequest struct {
	ItemName     string `json:"itemName" binding:"required"`
	DiamondValue *int   `json:"diamondValue" binding:"required,min=0"`
	EventID      string `json:"eventId" binding:"required"`
	Participants string `json:"participants" binding:"required"`
	AddedBy      string `json:"addedBy" binding:"required"`
}

func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /api/item-drops createItemDrop
	//
	// Create item drop
	//
	// Register an item dropped during an event
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   201: ItemDrop
	//   400: Error
	//   401: Error
	//   404: Error
	//   415: Error
	var request CreateItemDropRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	drop := &model.ItemDrop{
		ItemName:     request.ItemName,
		DiamondValue: *request.DiamondValue,
		EventID:      request.EventID,
		Participants: request.Participants,
		AddedBy:      request.AddedBy,
	}
	registeredBy := model.Actor{DiscordID: user.DiscordID, Name: user.Username}
	if err := h.dropService.Create(c.Request.Context(), drop, registeredBy); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, drop)
}

func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /api/item-drops listItemDrops
	//
	// List item drops
	//
	// List every item drop, newest first
	//
	// responses:
	//   200: []ItemDrop
	drops, err := h.dropService.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, drops)
}
