package activity

import (
	"context"
	"fmt"

	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Record adds an activity to the log as part of the unit of work of tx. The returned activity
// should be published once the unit of work is committed.
func Record(ctx context.Context, tx store.Tx, activityType model.ActivityType, userID *string, format string, a ...any) (model.Activity, error) {
	activity := model.Activity{
		Type:        activityType,
		Description: fmt.Sprintf(format, a...),
		UserID:      userID,
	}
	if err := tx.CreateActivity(ctx, &activity); err != nil {
		return model.Activity{}, err
	}
	return activity, nil
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(s store.Store) *service {
	return &service{store: s}
}

type service struct {
	store store.Store
}

// FindRecent returns the newest activities, at most limit of them.
func (s service) FindRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit < 1 || limit > MaxLimit {
		return nil, errdef.NewBadRequest("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}

	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.Activity, error) {
		return tx.FindRecentActivities(ctx, limit)
	})
}
