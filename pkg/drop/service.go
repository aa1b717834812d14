package drop

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

// Create registers a drop of the event identified by drop.EventID, an id or a slug. The event name
// is copied onto the drop. The activity is recorded on behalf of registeredBy.
func (s service) Create(ctx context.Context, drop *model.ItemDrop, registeredBy model.Actor) error {
	if drop.DiamondValue < 0 {
		return errdef.NewBadRequest("diamond value must not be negative, got %d", drop.DiamondValue)
	}

	var recorded model.Activity
	err := s.store.Transaction(ctx, func(tx store.Tx) error {
		event, err := tx.FindEvent(ctx, drop.EventID)
		if errdef.IsNotFound(err) {
			event, err = tx.FindEventBySlug(ctx, drop.EventID)
		}
		if err != nil {
			return err
		}

		drop.EventID = event.ID
		drop.EventName = event.Name
		if err := tx.CreateItemDrop(ctx, drop); err != nil {
			return err
		}

		recorded, err = activity.Record(ctx, tx, model.ActivityItemDrop, &registeredBy.DiscordID, "%s (%d diamantes) dropado em %s", drop.ItemName, drop.DiamondValue, event.Name)
		return err
	})
	if err != nil {
		return err
	}

	s.feed.Publish(recorded)
	return nil
}

// FindAll returns every drop, newest first.
func (s service) FindAll(ctx context.Context) ([]model.ItemDrop, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.ItemDrop, error) {
		return tx.FindAllItemDrops(ctx)
	})
}
