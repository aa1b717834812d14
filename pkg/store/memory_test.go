package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

func TestMemory_Members(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	member := &model.Member{DiscordID: "123", Name: "ShadowHunter", Class: "Guerreiro", Level: 1}
	err := s.Transaction(ctx, func(tx store.Tx) error {
		return tx.CreateMember(ctx, member)
	})
	require.NoError(t, err)
	require.NotEmpty(t, member.ID)
	require.False(t, member.CreatedAt.IsZero())

	t.Run("FindByID", func(t *testing.T) {
		got, err := store.Query(ctx, s, func(tx store.Tx) (*model.Member, error) {
			return tx.FindMember(ctx, member.ID)
		})
		require.NoError(t, err)
		assert.Equal(t, "ShadowHunter", got.Name)
	})

	t.Run("FindByDiscordID", func(t *testing.T) {
		got, err := store.Query(ctx, s, func(tx store.Tx) (*model.Member, error) {
			return tx.FindMemberByDiscordID(ctx, "123")
		})
		require.NoError(t, err)
		assert.Equal(t, member.ID, got.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Query(ctx, s, func(tx store.Tx) (*model.Member, error) {
			return tx.FindMember(ctx, "unknown")
		})
		assert.True(t, errdef.IsNotFound(err))
	})

	t.Run("DuplicatedDiscordID", func(t *testing.T) {
		err := s.Transaction(ctx, func(tx store.Tx) error {
			return tx.CreateMember(ctx, &model.Member{DiscordID: "123", Name: "Other", Class: "Mago"})
		})
		assert.True(t, errdef.IsDuplicated(err))
	})
}

func TestMemory_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	startedBy := "admin#0001"
	now := time.Now()
	event := &model.Event{Slug: "boss-leo", Name: "Boss Leo", Points: 6, Emoji: "🦁", StartedBy: &startedBy, StartedAt: &now}
	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		return tx.CreateEvent(ctx, event)
	}))

	got, err := store.Query(ctx, s, func(tx store.Tx) (*model.Event, error) {
		return tx.FindEvent(ctx, event.ID)
	})
	require.NoError(t, err)

	got.IsActive = true
	got.Points = 1000
	*got.StartedBy = "mallory"
	startedBy = "someone else"

	again, err := store.Query(ctx, s, func(tx store.Tx) (*model.Event, error) {
		return tx.FindEvent(ctx, event.ID)
	})
	require.NoError(t, err)
	assert.False(t, again.IsActive)
	assert.Equal(t, 6, again.Points)
	assert.Equal(t, "admin#0001", *again.StartedBy)
}

func TestMemory_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	member := &model.Member{DiscordID: "1", Name: "A", Class: "Mago", EventPoints: 10}
	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		return tx.CreateMember(ctx, member)
	}))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx store.Tx) error {
		m, err := tx.FindMember(ctx, member.ID)
		if err != nil {
			return err
		}
		m.EventPoints += 5
		if err := tx.SaveMember(ctx, m); err != nil {
			return err
		}
		if err := tx.CreateMember(ctx, &model.Member{DiscordID: "2", Name: "B", Class: "Mago"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	members, err := store.Query(ctx, s, func(tx store.Tx) ([]model.Member, error) {
		return tx.FindAllMembers(ctx)
	})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 10, members[0].EventPoints)
}

func TestMemory_TransactionRollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	assert.Panics(t, func() {
		_ = s.Transaction(ctx, func(tx store.Tx) error {
			_ = tx.CreateMember(ctx, &model.Member{DiscordID: "1", Name: "A", Class: "Mago"})
			panic("corrupted")
		})
	})

	members, err := store.Query(ctx, s, func(tx store.Tx) ([]model.Member, error) {
		return tx.FindAllMembers(ctx)
	})
	require.NoError(t, err, "want the store to be usable after a panic")
	assert.Empty(t, members)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.NewMemory().Transaction(ctx, func(tx store.Tx) error {
		t.Fatal("want fn not to be called")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_ItemDropsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	for _, name := range []string{"Anel", "Colar", "Espada Flamejante +15"} {
		require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
			return tx.CreateItemDrop(ctx, &model.ItemDrop{ItemName: name, DiamondValue: 10, EventID: "e", EventName: "E", Participants: "A", AddedBy: "admin"})
		}))
	}

	drops, err := store.Query(ctx, s, func(tx store.Tx) ([]model.ItemDrop, error) {
		return tx.FindAllItemDrops(ctx)
	})
	require.NoError(t, err)
	require.Len(t, drops, 3)
	assert.Equal(t, "Espada Flamejante +15", drops[0].ItemName)
	assert.Equal(t, "Anel", drops[2].ItemName)
}

func TestMemory_Participations(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	err := s.Transaction(ctx, func(tx store.Tx) error {
		if err := tx.CreateParticipation(ctx, &model.EventParticipation{EventID: "e", RunID: "r1", MemberID: "a"}); err != nil {
			return err
		}
		if err := tx.CreateParticipation(ctx, &model.EventParticipation{EventID: "e", RunID: "r1", MemberID: "b"}); err != nil {
			return err
		}
		return tx.CreateParticipation(ctx, &model.EventParticipation{EventID: "e", RunID: "r2", MemberID: "a"})
	})
	require.NoError(t, err)

	err = s.Transaction(ctx, func(tx store.Tx) error {
		return tx.CreateParticipation(ctx, &model.EventParticipation{EventID: "e", RunID: "r1", MemberID: "a"})
	})
	assert.True(t, errdef.IsDuplicated(err))

	participations, err := store.Query(ctx, s, func(tx store.Tx) ([]model.EventParticipation, error) {
		return tx.FindParticipations(ctx, "e", "r1")
	})
	require.NoError(t, err)
	assert.Len(t, participations, 2)
}

func TestMemory_BotConfigUniquePerGuild(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		return tx.SaveBotConfig(ctx, &model.BotConfig{GuildID: "g", EventManagerRoleID: "r"})
	}))

	err := s.Transaction(ctx, func(tx store.Tx) error {
		return tx.SaveBotConfig(ctx, &model.BotConfig{GuildID: "g", EventManagerRoleID: "other"})
	})
	assert.True(t, errdef.IsDuplicated(err))
}

func TestMemory_RecentActivitiesLimit(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		for i := 0; i < 5; i++ {
			if err := tx.CreateActivity(ctx, &model.Activity{Type: model.ActivityCheckIn, Description: "check-in"}); err != nil {
				return err
			}
		}
		return nil
	}))

	activities, err := store.Query(ctx, s, func(tx store.Tx) ([]model.Activity, error) {
		return tx.FindRecentActivities(ctx, 3)
	})
	require.NoError(t, err)
	assert.Len(t, activities, 3)
}

func TestMemory_SerializesTransactions(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	member := &model.Member{DiscordID: "1", Name: "A", Class: "Mago"}
	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		return tx.CreateMember(ctx, member)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Transaction(ctx, func(tx store.Tx) error {
				m, err := tx.FindMember(ctx, member.ID)
				if err != nil {
					return err
				}
				m.EventPoints++
				return tx.SaveMember(ctx, m)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Query(ctx, s, func(tx store.Tx) (*model.Member, error) {
		return tx.FindMember(ctx, member.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, 50, got.EventPoints)
}
