// Package permission decides who may manage guild events. Managers are the holders of the role
// configured per guild, nobody is granted implicitly.
package permission

import (
	"context"
	"fmt"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

// RoleChecker reports whether a principal holds a role. The bot answers it from the guild member
// behind an interaction.
type RoleChecker interface {
	HasRole(ctx context.Context, principalID, roleID string) (bool, error)
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(s store.Store) *service {
	return &service{store: s}
}

type service struct {
	store store.Store
}

// CanManage returns nil if principalID holds the manager role of the guild. A guild without a
// manager role yields a not configured error, a principal without it a forbidden error.
func (s service) CanManage(ctx context.Context, guildID, principalID string, roles RoleChecker) error {
	config, err := s.FindConfig(ctx, guildID)
	if errdef.IsNotFound(err) {
		return errdef.NewNotConfigured("no event manager role configured for guild %q", guildID)
	}
	if err != nil {
		return err
	}
	if config.EventManagerRoleID == "" {
		return errdef.NewNotConfigured("no event manager role configured for guild %q", guildID)
	}

	ok, err := roles.HasRole(ctx, principalID, config.EventManagerRoleID)
	if err != nil {
		return fmt.Errorf("failed to check roles of %q: %v", principalID, err)
	}
	if !ok {
		return errdef.NewForbidden("%q doesn't hold the event manager role of guild %q", principalID, guildID)
	}
	return nil
}

// SetManagerRole creates or replaces the manager role of the guild.
func (s service) SetManagerRole(ctx context.Context, guildID, roleID string) (*model.BotConfig, error) {
	if guildID == "" || roleID == "" {
		return nil, errdef.NewBadRequest("guild and role are required")
	}

	return store.Query(ctx, s.store, func(tx store.Tx) (*model.BotConfig, error) {
		config, err := tx.FindBotConfig(ctx, guildID)
		if errdef.IsNotFound(err) {
			config = &model.BotConfig{GuildID: guildID}
		} else if err != nil {
			return nil, err
		}

		config.EventManagerRoleID = roleID
		if err := tx.SaveBotConfig(ctx, config); err != nil {
			return nil, err
		}
		return config, nil
	})
}

func (s service) FindConfig(ctx context.Context, guildID string) (*model.BotConfig, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.BotConfig, error) {
		return tx.FindBotConfig(ctx, guildID)
	})
}
