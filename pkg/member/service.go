package member

import (
	"cmp"
	"context"
	"slices"

	"github.com/talitamaia0609-debug/siter/pkg/activity"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

// Ranking orders
const (
	SortByLevel       = "level"
	SortByPower       = "power"
	SortByEventPoints = "eventPoints"
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

func (s service) Create(ctx context.Context, member *model.Member) error {
	var recorded model.Activity
	err := s.store.Transaction(ctx, func(tx store.Tx) error {
		if err := tx.CreateMember(ctx, member); err != nil {
			return err
		}

		var err error
		recorded, err = activity.Record(ctx, tx, model.ActivityMemberCreated, &member.DiscordID, "%s entrou na guilda", member.Name)
		return err
	})
	if err != nil {
		return err
	}

	s.feed.Publish(recorded)
	return nil
}

func (s service) Find(ctx context.Context, id string) (*model.Member, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.Member, error) {
		return tx.FindMember(ctx, id)
	})
}

func (s service) FindByDiscordID(ctx context.Context, discordID string) (*model.Member, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.Member, error) {
		return tx.FindMemberByDiscordID(ctx, discordID)
	})
}

func (s service) FindAll(ctx context.Context) ([]model.Member, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.Member, error) {
		return tx.FindAllMembers(ctx)
	})
}

// Rankings returns every member ordered by sortBy, highest first. Ties keep the order the members
// joined in.
func (s service) Rankings(ctx context.Context, sortBy string) ([]model.Member, error) {
	members, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	key := func(m model.Member) int { return m.EventPoints }
	switch sortBy {
	case SortByLevel:
		key = func(m model.Member) int { return m.Level }
	case SortByPower:
		key = func(m model.Member) int { return m.Power }
	}

	slices.SortStableFunc(members, func(a, b model.Member) int {
		return cmp.Compare(key(b), key(a))
	})
	return members, nil
}
