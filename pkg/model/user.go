package model

import (
	"context"
	"time"
)

// User domain object defining a dashboard user signed in through Discord
// swagger:model
type User struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	DiscordID     string    `json:"discordId" gorm:"uniqueIndex;not null"`
	Username      string    `json:"username" gorm:"not null"`
	Discriminator *string   `json:"discriminator"`
	Email         *string   `json:"email"`
	Avatar        *string   `json:"avatar"`
	AccessToken   *string   `json:"-"`
	RefreshToken  *string   `json:"-"`
}

type ctxKey int

var userKey ctxKey

// NewContextWithUser returns a new [context.Context] that carries the user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in the ctx, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok
}
