package stats_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/stats"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		got, err := stats.NewService(store.NewMemory()).Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, stats.Stats{}, got)
	})

	t.Run("Guild", func(t *testing.T) {
		s := store.NewMemory()
		require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
			for i, level := range []int{10, 11} {
				err := tx.CreateMember(ctx, &model.Member{DiscordID: string(rune('a' + i)), Name: "m", Class: "Mago", Level: level})
				if err != nil {
					return err
				}
			}
			if err := tx.CreateEvent(ctx, &model.Event{Slug: "a", Name: "A", IsActive: true}); err != nil {
				return err
			}
			if err := tx.CreateEvent(ctx, &model.Event{Slug: "b", Name: "B"}); err != nil {
				return err
			}
			return tx.CreateItemDrop(ctx, &model.ItemDrop{ItemName: "Elmo"})
		}))

		got, err := stats.NewService(s).Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, stats.Stats{TotalMembers: 2, ActiveEventsCount: 1, AvgLevel: 11, TotalItemDrops: 1}, got)
	})
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) Get(ctx context.Context) (stats.Stats, error) {
	called := m.Called(ctx)
	return called.Get(0).(stats.Stats), called.Error(1)
}

func TestHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("OK", func(t *testing.T) {
		service := &mockStatsService{}
		service.On("Get", mock.Anything).Return(stats.Stats{TotalMembers: 3, AvgLevel: 7}, nil)
		r := gin.New()
		stats.Routes(r, stats.NewHandler(service))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]int
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, map[string]int{"totalMembers": 3, "activeEventsCount": 0, "avgLevel": 7, "totalItemDrops": 0}, body)
		service.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		service := &mockStatsService{}
		service.On("Get", mock.Anything).Return(stats.Stats{}, errors.New("boom"))
		r := gin.New()
		r.Use(middleware.ErrorHandler())
		stats.Routes(r, stats.NewHandler(service))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
