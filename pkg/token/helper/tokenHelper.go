package helper

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	issuer    = "siter"
	userIDKey = "userId"
)

// SessionToken is a signed session token.
type SessionToken struct {
	Signed    string
	ID        string
	ExpiresIn time.Duration
}

// GenerateSessionToken signs a token identifying a dashboard session of the user with the given id.
// Every token has a unique id under which the session is registered so it can be revoked.
func GenerateSessionToken(userID string, secretKey string, expiration time.Duration) (*SessionToken, error) {
	now := time.Now()
	id := uuid.NewString()

	token, err := jwt.NewBuilder().
		Issuer(issuer).
		JwtID(id).
		IssuedAt(now).
		Expiration(now.Add(expiration)).
		Claim(userIDKey, userID).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secretKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %v", err)
	}

	return &SessionToken{
		Signed:    string(signed),
		ID:        id,
		ExpiresIn: expiration,
	}, nil
}

// SessionClaims are the claims of a valid session token.
type SessionClaims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// ValidateSessionToken verifies signature, issuer and expiration of tokenString.
func ValidateSessionToken(tokenString string, secretKey string) (*SessionClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, []byte(secretKey)),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, err
	}

	value, ok := token.Get(userIDKey)
	if !ok {
		return nil, fmt.Errorf("%s not found in claims", userIDKey)
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid user id in claims")
	}
	if token.JwtID() == "" {
		return nil, fmt.Errorf("%s not found in claims", jwt.JwtIDKey)
	}

	return &SessionClaims{
		UserID:    userID,
		TokenID:   token.JwtID(),
		ExpiresAt: token.Expiration(),
	}, nil
}
