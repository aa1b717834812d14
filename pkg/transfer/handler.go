package transfer

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func NewHandler(transferService transferService) Handler {
	return Handler{transferService}
}

type Handler struct {
	transferService transferService
}

type transferService interface {
	Create(ctx context.Context, fromMemberID, toMemberID string, points int) (*model.PointTransfer, error)
	Approve(ctx context.Context, id, approvedBy string) (*model.PointTransfer, error)
	FindAll(ctx context.Context) ([]model.PointTransfer, error)
}

// CreateTransferRequest
// swagger:model CreateTransferRequest
type CreateTransferRequest struct {
	FromMemberID string `json:"fromMemberId" binding:"required"`
	ToMemberID   string `json:"toMemberId" binding:"required"`
	Points       int    `json:"points" binding:"required,gt=0"`
}

func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /api/transfers createTransfer
	//
	// Request transfer
	//
	// Request a transfer of event points between two members
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   201: PointTransfer
	//   400: Error
	//   401: Error
	//   404: Error
	//   415: Error
	var request CreateTransferRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	transfer, err := h.transferService.Create(c.Request.Context(), request.FromMemberID, request.ToMemberID, request.Points)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

func (h Handler) Approve(c *gin.Context) {
	// swagger:route PUT /api/transfers/{id}/approve approveTransfer
	//
	// Approve transfer
	//
	// Approve a pending transfer and move its points
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   200: PointTransfer
	//   400: Error
	//   401: Error
	//   404: Error
	//   422: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	transfer, err := h.transferService.Approve(c.Request.Context(), id, user.DiscordID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, transfer)
}

func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /api/transfers listTransfers
	//
	// List transfers
	//
	// responses:
	//   200: []PointTransfer
	transfers, err := h.transferService.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, transfers)
}
