package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/internal/util"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/token"
)

func NewAuthentication(logger *slog.Logger, tokenService tokenService, userService userService) AuthenticationMiddleware {
	return AuthenticationMiddleware{
		logger:       logger,
		tokenService: tokenService,
		userService:  userService,
	}
}

type tokenService interface {
	ValidateSession(ctx context.Context, tokenString string) (*token.Session, error)
}

type userService interface {
	FindById(ctx context.Context, id string) (*model.User, error)
}

type AuthenticationMiddleware struct {
	logger       *slog.Logger
	tokenService tokenService
	userService  userService
}

// TokenAuthentication rejects requests without a valid dashboard session. The session token is
// read from the session cookie or the Authorization header.
func (m AuthenticationMiddleware) TokenAuthentication(c *gin.Context) {
	tokenString, err := handler.GetSessionToken(c, util.SessionCookieName)
	if err != nil {
		_ = c.Error(errdef.NewUnauthorized("session not found"))
		c.Abort()
		return
	}

	ctx := c.Request.Context()
	session, err := m.tokenService.ValidateSession(ctx, tokenString)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	user, err := m.userService.FindById(ctx, session.UserID)
	if err != nil {
		if errdef.IsNotFound(err) {
			m.logger.WarnContext(ctx, "Session of unknown user", "session", session.ID)
			err = errdef.NewUnauthorized("session not valid")
		}
		_ = c.Error(err)
		c.Abort()
		return
	}

	handler.SetUserOnContext(c, user)
	c.Set(sessionKey, session)
	c.Next()
}

const sessionKey = "session"

// GetSession returns the session validated by [AuthenticationMiddleware.TokenAuthentication].
func GetSession(c *gin.Context) (*token.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*token.Session)
	return session, ok
}
