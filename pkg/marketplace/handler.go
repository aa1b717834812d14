package marketplace

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func NewHandler(marketplaceService marketplaceService) Handler {
	return Handler{marketplaceService}
}

type Handler struct {
	marketplaceService marketplaceService
}

type marketplaceService interface {
	Create(ctx context.Context, item *model.MarketplaceItem) error
	FindAll(ctx context.Context) ([]model.MarketplaceItem, error)
}

// CreateMarketplaceItemRequest
// swagger:model CreateMarketplaceItemRequest
type CreateMarketplaceItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	SellerID    string  `json:"sellerId" binding:"required"`
	Price       *int    `json:"price" binding:"required,min=0"`
}

func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /api/marketplace createMarketplaceItem
	//
	// Create listing
	//
	// List an item of a member for sale
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   201: MarketplaceItem
	//   400: Error
	//   401: Error
	//   404: Error
	//   415: Error
	var request CreateMarketplaceItemRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	item := &model.MarketplaceItem{
		Name:        request.Name,
		Description: request.Description,
		SellerID:    request.SellerID,
		Price:       *request.Price,
	}
	if err := h.marketplaceService.Create(c.Request.Context(), item); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /api/marketplace listMarketplaceItems
	//
	// List listings
	//
	// responses:
	//   200: []MarketplaceItem
	items, err := h.marketplaceService.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}
