// Package stats aggregates the figures shown on the dashboard.
package stats

import (
	"context"
	"math"

	"github.com/talitamaia0609-debug/siter/pkg/store"
)

// Stats
// swagger:model Stats
type Stats struct {
	TotalMembers      int `json:"totalMembers"`
	ActiveEventsCount int `json:"activeEventsCount"`
	AvgLevel          int `json:"avgLevel"`
	TotalItemDrops    int `json:"totalItemDrops"`
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(s store.Store) *service {
	return &service{store: s}
}

type service struct {
	store store.Store
}

// Get reads every figure within a single unit of work. The average level is rounded to the
// nearest integer and 0 for a guild without members.
func (s service) Get(ctx context.Context) (Stats, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (Stats, error) {
		members, err := tx.FindAllMembers(ctx)
		if err != nil {
			return Stats{}, err
		}
		events, err := tx.FindAllEvents(ctx)
		if err != nil {
			return Stats{}, err
		}
		drops, err := tx.FindAllItemDrops(ctx)
		if err != nil {
			return Stats{}, err
		}

		stats := Stats{
			TotalMembers:   len(members),
			TotalItemDrops: len(drops),
		}
		for _, event := range events {
			if event.IsActive {
				stats.ActiveEventsCount++
			}
		}
		if len(members) > 0 {
			total := 0
			for _, member := range members {
				total += member.Level
			}
			stats.AvgLevel = int(math.Round(float64(total) / float64(len(members))))
		}
		return stats, nil
	})
}
