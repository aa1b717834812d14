// Package store owns every entity of the guild. Consumers reach the entities through a [Store]
// which hands out a [Tx] for the duration of a unit of work. All reads return copies, an entity
// only changes when it is handed back to one of the [Tx] write methods.
package store

import (
	"context"

	"github.com/talitamaia0609-debug/siter/pkg/model"
)

// Tx holds the entity accessors available within a unit of work. Lookups of missing entities
// return an error satisfying errdef.IsNotFound and violations of unique fields an error satisfying
// errdef.IsDuplicated. Create methods assign the identifier and creation time.
type Tx interface {
	FindMember(ctx context.Context, id string) (*model.Member, error)
	FindMemberByDiscordID(ctx context.Context, discordID string) (*model.Member, error)
	FindAllMembers(ctx context.Context) ([]model.Member, error)
	CreateMember(ctx context.Context, member *model.Member) error
	SaveMember(ctx context.Context, member *model.Member) error

	FindEvent(ctx context.Context, id string) (*model.Event, error)
	FindEventBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindAllEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, event *model.Event) error
	SaveEvent(ctx context.Context, event *model.Event) error

	CreateParticipation(ctx context.Context, participation *model.EventParticipation) error
	FindParticipation(ctx context.Context, eventID, runID, memberID string) (*model.EventParticipation, error)
	FindParticipations(ctx context.Context, eventID, runID string) ([]model.EventParticipation, error)

	CreateItemDrop(ctx context.Context, drop *model.ItemDrop) error
	FindAllItemDrops(ctx context.Context) ([]model.ItemDrop, error)

	FindBotConfig(ctx context.Context, guildID string) (*model.BotConfig, error)
	SaveBotConfig(ctx context.Context, config *model.BotConfig) error

	CreateActivity(ctx context.Context, activity *model.Activity) error
	FindRecentActivities(ctx context.Context, limit int) ([]model.Activity, error)

	CreateMarketplaceItem(ctx context.Context, item *model.MarketplaceItem) error
	FindAllMarketplaceItems(ctx context.Context) ([]model.MarketplaceItem, error)

	CreatePointTransfer(ctx context.Context, transfer *model.PointTransfer) error
	FindPointTransfer(ctx context.Context, id string) (*model.PointTransfer, error)
	SavePointTransfer(ctx context.Context, transfer *model.PointTransfer) error
	FindAllPointTransfers(ctx context.Context) ([]model.PointTransfer, error)

	FindUser(ctx context.Context, id string) (*model.User, error)
	FindUserByDiscordID(ctx context.Context, discordID string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
}

// Store runs units of work. Either every write of fn is applied or, if fn returns an error, none
// is. Units of work never interleave on the same entities. fn must not start another transaction.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Query runs fn in a unit of work and returns its result.
func Query[T any](ctx context.Context, s Store, fn func(tx Tx) (T, error)) (T, error) {
	var result T
	err := s.Transaction(ctx, func(tx Tx) error {
		var err error
		result, err = fn(tx)
		return err
	})
	return result, err
}
