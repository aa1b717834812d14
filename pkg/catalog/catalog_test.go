package catalog_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/pkg/catalog"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

func TestDefault(t *testing.T) {
	events, err := catalog.Default()
	require.NoError(t, err)

	require.Len(t, events, 10)
	type entry struct {
		name   string
		points int
		emoji  string
	}
	want := []entry{
		{"Doações", 1, "💰"},
		{"Boss Briare", 2, "🐉"},
		{"Boss Lythea", 4, "🐉"},
		{"Boss Ostiar", 6, "🐉"},
		{"Boss Leo", 6, "🦁"},
		{"Boss da Guilda", 10, "🛡️"},
		{"Guerra de Território", 100, "⚔️"},
		{"Guerra de Cerco", 150, "🏰"},
		{"Boss Aranamed", 8, "🐍"},
		{"Boss Monarca", 10, "👑"},
	}
	for i, e := range events {
		assert.Equal(t, want[i], entry{e.Name, e.Points, e.Emoji})
		assert.Equal(t, i, e.Position)
		assert.False(t, e.IsActive)
	}
	assert.Equal(t, "boss-aranamed", events[8].Slug)
	assert.Equal(t, "guerra-de-territorio", events[6].Slug)
}

func TestParse(t *testing.T) {
	t.Run("DuplicateName", func(t *testing.T) {
		_, err := catalog.Parse([]byte("events:\n  - name: Boss Leo\n    points: 6\n  - name: boss leo\n    points: 6\n"))
		require.ErrorContains(t, err, "duplicate event")
	})

	t.Run("NegativePoints", func(t *testing.T) {
		_, err := catalog.Parse([]byte("events:\n  - name: Boss Leo\n    points: -1\n"))
		require.ErrorContains(t, err, "negative points")
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := catalog.Parse([]byte("events:\n  - name: Boss Leo\n    pontos: 6\n"))
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	events, err := catalog.Default()
	require.NoError(t, err)

	require.NoError(t, catalog.Load(ctx, slog.Default(), s, events))

	leo, err := store.Query(ctx, s, func(tx store.Tx) (*model.Event, error) {
		return tx.FindEventBySlug(ctx, "boss-leo")
	})
	require.NoError(t, err)
	leo.IsActive = true
	leo.RunID = "run"
	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		return tx.SaveEvent(ctx, leo)
	}))

	require.NoError(t, catalog.Load(ctx, slog.Default(), s, events), "want loading twice to succeed")

	all, err := store.Query(ctx, s, func(tx store.Tx) ([]model.Event, error) {
		return tx.FindAllEvents(ctx)
	})
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "Doações", all[0].Name)
	assert.Equal(t, "Boss Monarca", all[9].Name)
	assert.True(t, all[4].IsActive, "want the running event to be kept")
}
