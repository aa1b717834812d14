package activity_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/middleware"
	"github.com/talitamaia0609-debug/siter/pkg/activity"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

func setup(t *testing.T) (*gin.Engine, store.Store, *activity.Broker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemory()
	broker := activity.NewBroker(slog.Default())
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	activity.Routes(r, activity.NewHandler(activity.NewService(s), broker))
	return r, s, broker
}

func recordActivities(t *testing.T, s store.Store, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Transaction(ctx, func(tx store.Tx) error {
		for i := 0; i < n; i++ {
			if _, err := activity.Record(ctx, tx, model.ActivityCheckIn, nil, "check-in %d", i); err != nil {
				return err
			}
		}
		return nil
	}))
}

func TestHandler_List(t *testing.T) {
	r, s, _ := setup(t)
	recordActivities(t, s, 15)

	t.Run("DefaultLimit", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var activities []model.Activity
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &activities))
		assert.Len(t, activities, activity.DefaultLimit)
		assert.Equal(t, "check-in 14", activities[0].Description)
	})

	t.Run("Limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities?limit=3", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var activities []model.Activity
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &activities))
		assert.Len(t, activities, 3)
	})

	t.Run("LimitTooLarge", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities?limit=101", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("LimitNotANumber", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities?limit=ten", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Stream(t *testing.T) {
	r, _, broker := setup(t)
	server := httptest.NewServer(r)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/activities/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return broker.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	broker.Publish(model.Activity{ID: "1", Type: model.ActivityEventStarted, Description: "Boss Aranamed iniciado"})

	var lines []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	require.Len(t, lines, 3)
	assert.Equal(t, "id:1", lines[0])
	assert.Equal(t, "event:event_started", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "data:"))
	assert.Contains(t, lines[2], "Boss Aranamed iniciado")

	cancel()
	assert.Eventually(t, func() bool { return broker.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}
