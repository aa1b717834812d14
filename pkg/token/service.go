package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/token/helper"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, sessionRepository repository, secretKey string, expiration time.Duration) *tokenService {
	return &tokenService{
		logger:     logger,
		repository: sessionRepository,
		secretKey:  secretKey,
		expiration: expiration,
	}
}

type repository interface {
	SetSession(ctx context.Context, tokenId string, userId string, expiresIn time.Duration) error
	GetSession(ctx context.Context, tokenId string) (string, error)
	DeleteSession(ctx context.Context, tokenId string) error
}

// Session of a dashboard user
// swagger:model
type Session struct {
	Token     string    `json:"-"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresIn uint      `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type tokenService struct {
	logger     *slog.Logger
	repository repository
	secretKey  string
	expiration time.Duration
}

// Expiration returns how long a session lasts.
func (t tokenService) Expiration() time.Duration {
	return t.expiration
}

// CreateSession signs a new session token for the user and registers it so it can be revoked.
func (t tokenService) CreateSession(ctx context.Context, user *model.User) (*Session, error) {
	sessionToken, err := helper.GenerateSessionToken(user.ID, t.secretKey, t.expiration)
	if err != nil {
		return nil, fmt.Errorf("error generating session token for user %q: %v", user.ID, err)
	}

	if err := t.repository.SetSession(ctx, sessionToken.ID, user.ID, sessionToken.ExpiresIn); err != nil {
		return nil, fmt.Errorf("error storing session of user %q: %v", user.ID, err)
	}

	return &Session{
		Token:     sessionToken.Signed,
		ID:        sessionToken.ID,
		UserID:    user.ID,
		ExpiresIn: uint(sessionToken.ExpiresIn.Seconds()),
		ExpiresAt: time.Now().Add(sessionToken.ExpiresIn),
	}, nil
}

// ValidateSession returns the session of tokenString. The session must not have been revoked.
func (t tokenService) ValidateSession(ctx context.Context, tokenString string) (*Session, error) {
	claims, err := helper.ValidateSessionToken(tokenString, t.secretKey)
	if err != nil {
		t.logger.InfoContext(ctx, "Unable to validate session token", "error", err)
		return nil, errdef.NewUnauthorized("session not valid")
	}

	userId, err := t.repository.GetSession(ctx, claims.TokenID)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized("session revoked")
		}
		return nil, err
	}
	if userId != claims.UserID {
		t.logger.WarnContext(ctx, "Session belongs to another user", "session", claims.TokenID)
		return nil, errdef.NewUnauthorized("session not valid")
	}

	return &Session{
		Token:     tokenString,
		ID:        claims.TokenID,
		UserID:    claims.UserID,
		ExpiresIn: uint(time.Until(claims.ExpiresAt).Seconds()),
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// RevokeSession ends the session. Revoking an unknown session is not an error.
func (t tokenService) RevokeSession(ctx context.Context, sessionId string) error {
	return t.repository.DeleteSession(ctx, sessionId)
}
