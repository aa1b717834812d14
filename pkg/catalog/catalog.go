// Package catalog seeds the store with the events a guild can run.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"github.com/talitamaia0609-debug/siter/pkg/store"
	"gopkg.in/yaml.v3"
)

//go:embed events.yml
var defaultCatalog []byte

type catalogYaml struct {
	Events []eventYaml `yaml:"events"`
}

type eventYaml struct {
	Name   string `yaml:"name"`
	Points int    `yaml:"points"`
	Emoji  string `yaml:"emoji"`
}

// Default returns the events of the embedded catalog.
func Default() ([]model.Event, error) {
	return Parse(defaultCatalog)
}

// Parse parses a YAML event catalog. The slug of an event is derived from its name and its position
// is its index in the list.
func Parse(data []byte) ([]model.Event, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var c catalogYaml
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse event catalog: %v", err)
	}

	events := make([]model.Event, 0, len(c.Events))
	slugs := make(map[string]struct{}, len(c.Events))
	for i, e := range c.Events {
		if e.Name == "" {
			return nil, fmt.Errorf("event at position %d has no name", i)
		}
		if e.Points < 0 {
			return nil, fmt.Errorf("event %q has negative points: %d", e.Name, e.Points)
		}

		s := slug.Make(e.Name)
		if _, ok := slugs[s]; ok {
			return nil, fmt.Errorf("duplicate event %q", e.Name)
		}
		slugs[s] = struct{}{}

		events = append(events, model.Event{
			Position: i,
			Slug:     s,
			Name:     e.Name,
			Points:   e.Points,
			Emoji:    e.Emoji,
		})
	}

	return events, nil
}

// Load creates the given events in s. Events which already exist, identified by their slug, are
// left untouched so the state of a running event survives a restart.
func Load(ctx context.Context, logger *slog.Logger, s store.Store, events []model.Event) error {
	return s.Transaction(ctx, func(tx store.Tx) error {
		for _, event := range events {
			existing, err := tx.FindEventBySlug(ctx, event.Slug)
			if err == nil {
				logger.DebugContext(ctx, "Event exists", "event", existing.Name)
				continue
			}
			if !errdef.IsNotFound(err) {
				return fmt.Errorf("error searching existing event %q: %v", event.Name, err)
			}

			if err := tx.CreateEvent(ctx, &event); err != nil {
				return fmt.Errorf("error creating event %q: %v", event.Name, err)
			}
			logger.InfoContext(ctx, "Event created", "event", event.Name, "slug", event.Slug)
		}
		return nil
	})
}
