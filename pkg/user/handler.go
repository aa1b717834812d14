package user

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/internal/util"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/token"
)

// NewHandler creates the sign in handlers. Sign in is answered with a not configured error if
// provider is nil. Signed in users are redirected to redirectURL.
func NewHandler(userService userService, tokenService tokenService, provider provider, redirectURL string, secureCookies bool) Handler {
	return Handler{
		userService:   userService,
		tokenService:  tokenService,
		provider:      provider,
		redirectURL:   redirectURL,
		secureCookies: secureCookies,
	}
}

type Handler struct {
	userService   userService
	tokenService  tokenService
	provider      provider
	redirectURL   string
	secureCookies bool
}

type userService interface {
	CreateOrUpdate(ctx context.Context, profile *model.User) (*model.User, error)
}

type tokenService interface {
	Expiration() time.Duration
	CreateSession(ctx context.Context, user *model.User) (*token.Session, error)
	RevokeSession(ctx context.Context, sessionId string) error
}

type provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*model.User, error)
}

func (h Handler) loginEnabled() bool {
	return h.provider != nil
}

func (h Handler) SignIn(c *gin.Context) {
	// swagger:route GET /auth/discord signIn
	//
	// Sign in
	//
	// Redirect to Discord to sign in
	//
	// responses:
	//   302:
	//   412: Error
	if !h.loginEnabled() {
		_ = c.Error(errdef.NewNotConfigured("sign in with Discord is not configured"))
		return
	}

	state := uuid.NewString()
	util.SetStateCookie(c, state, h.secureCookies)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

type callbackRequest struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}

func (h Handler) Callback(c *gin.Context) {
	// swagger:route GET /auth/discord/callback signInCallback
	//
	// Sign in callback
	//
	// Complete signing in with Discord. A session cookie is set and the user is redirected to the dashboard
	//
	// responses:
	//   302:
	//   400: Error
	//   401: Error
	//   412: Error
	if !h.loginEnabled() {
		_ = c.Error(errdef.NewNotConfigured("sign in with Discord is not configured"))
		return
	}

	var request callbackRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	state, err := c.Cookie(util.OAuthStateCookieName)
	util.ClearStateCookie(c, h.secureCookies)
	if err != nil || subtle.ConstantTimeCompare([]byte(state), []byte(request.State)) != 1 {
		_ = c.Error(errdef.NewUnauthorized("sign in state mismatch"))
		return
	}

	ctx := c.Request.Context()
	profile, err := h.provider.Exchange(ctx, request.Code)
	if err != nil {
		_ = c.Error(errdef.NewUnauthorized("failed to sign in with Discord: %v", err))
		return
	}

	user, err := h.userService.CreateOrUpdate(ctx, profile)
	if err != nil {
		_ = c.Error(err)
		return
	}

	session, err := h.tokenService.CreateSession(ctx, user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetSessionCookie(c, session.Token, h.tokenService.Expiration(), h.secureCookies)
	c.Redirect(http.StatusFound, h.redirectURL)
}

func (h Handler) SignOut(c *gin.Context) {
	// swagger:route POST /auth/logout signOut
	//
	// Sign out
	//
	// Revoke the current session
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   200: Message
	//   401: Error
	session, ok := middleware.GetSession(c)
	if !ok {
		_ = c.Error(errdef.NewUnauthorized("session not found"))
		return
	}

	if err := h.tokenService.RevokeSession(c.Request.Context(), session.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearSessionCookie(c, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /api/auth/me me
	//
	// User details
	//
	// Current user details
	//
	// security:
	//   cookieAuth:
	//
	// responses:
	//   200: User
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}
