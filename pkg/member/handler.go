package member

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

func NewHandler(memberService memberService) Handler {
	return Handler{memberService}
}

type Handler struct {
	memberService memberService
}

type memberService interface {
	Create(ctx context.Context, member *model.Member) error
	Find(ctx context.Context, id string) (*model.Member, error)
	FindAll(ctx context.Context) ([]model.Member, error)
	Rankings(ctx context.Context, sortBy string) ([]model.Member, error)
}

// CreateMemberRequest
// swagger:model CreateMemberRequest
type CreateMemberRequest struct {
	DiscordID   string `json:"discordId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Class       string `json:"class" binding:"required"`
	Level       *int   `json:"level" binding:"omitempty,min=0"`
	Power       *int   `json:"power" binding:"omitempty,min=0"`
	EventPoints *int   `json:"eventPoints" binding:"omitempty,min=0"`
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /api/members createMember
	//
	// Create member
	//
	// Add a member to the guild. Level defaults to 1, power and event points to 0
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   201: Member
	//   400: Error
	//   401: Error
	//   409: Error
	//   415: Error
	var request CreateMemberRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	member := &model.Member{
		DiscordID:   request.DiscordID,
		Name:        request.Name,
		Class:       request.Class,
		Level:       valueOr(request.Level, model.DefaultMemberLevel),
		Power:       valueOr(request.Power, 0),
		EventPoints: valueOr(request.EventPoints, 0),
	}
	if err := h.memberService.Create(c.Request.Context(), member); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /api/members listMembers
	//
	// List members
	//
	// List every member of the guild in the order they joined
	//
	// responses:
	//   200: []Member
	members, err := h.memberService.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /api/members/{id} findMember
	//
	// Find member
	//
	// responses:
	//   200: Member
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.Find(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, member)
}

type rankingsRequest struct {
	SortBy string `form:"sortBy,default=eventPoints" binding:"oneOf=level power eventPoints"`
}

func (h Handler) Rankings(c *gin.Context) {
	// swagger:route GET /api/rankings listRankings
	//
	// Rankings
	//
	// List the members ordered by level, power or event points, highest first
	//
	// responses:
	//   200: []Member
	//   400: Error
	var request rankingsRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	members, err := h.memberService.Rankings(c.Request.Context(), request.SortBy)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, members)
}
