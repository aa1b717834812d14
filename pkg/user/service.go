package user

import (
	"context"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

type Service struct {
	store store.Store
}

func (s Service) FindById(ctx context.Context, id string) (*model.User, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.User, error) {
		return tx.FindUser(ctx, id)
	})
}

func (s Service) FindByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.User, error) {
		return tx.FindUserByDiscordID(ctx, discordID)
	})
}

// CreateOrUpdate stores the profile of a Discord user signing in. A known user keeps its id and
// gets the rest of its profile and tokens replaced.
func (s Service) CreateOrUpdate(ctx context.Context, profile *model.User) (*model.User, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.User, error) {
		user, err := tx.FindUserByDiscordID(ctx, profile.DiscordID)
		if errdef.IsNotFound(err) {
			user = &model.User{DiscordID: profile.DiscordID}
		} else if err != nil {
			return nil, err
		}

		user.Username = profile.Username
		user.Discriminator = profile.Discriminator
		user.Email = profile.Email
		user.Avatar = profile.Avatar
		user.AccessToken = profile.AccessToken
		user.RefreshToken = profile.RefreshToken
		if err := tx.SaveUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
}
