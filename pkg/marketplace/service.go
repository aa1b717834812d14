package marketplace

import (
	"context"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/activity"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

type publisher interface {
	Publish(activities ...model.Activity)
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(s store.Store, feed publisher) *service {
	return &service{store: s, feed: feed}
}

type service struct {
	store store.Store
	feed  publisher
}

// Create lists an item for sale. The seller must be a member of the guild.
func (s service) Create(ctx context.Context, item *model.MarketplaceItem) error {
	if item.Price < 0 {
		return errdef.NewBadRequest("price must not be negative, got %d", item.Price)
	}

	var recorded model.Activity
	err := s.store.Transaction(ctx, func(tx store.Tx) error {
		seller, err := tx.FindMember(ctx, item.SellerID)
		if err != nil {
			return err
		}

		item.Status = model.MarketplaceItemAvailable
		if err := tx.CreateMarketplaceItem(ctx, item); err != nil {
			return err
		}

		recorded, err = activity.Record(ctx, tx, model.ActivityMarketplaceListed, &seller.DiscordID, "%s anunciou %s por %d", seller.Name, item.Name, item.Price)
		return err
	})
	if err != nil {
		return err
	}

	s.feed.Publish(recorded)
	return nil
}

// FindAll returns every listing, newest first.
func (s service) FindAll(ctx context.Context) ([]model.MarketplaceItem, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.MarketplaceItem, error) {
		return tx.FindAllMarketplaceItems(ctx)
	})
}
