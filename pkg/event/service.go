package event

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
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
	return &service{
		store: s,
		feed:  feed,
		now:   time.Now,
	}
}

type service struct {
	store store.Store
	feed  publisher
	now   func() time.Time
}

// find resolves an event by id and falls back to its slug.
func find(ctx context.Context, tx store.Tx, idOrSlug string) (*model.Event, error) {
	event, err := tx.FindEvent(ctx, idOrSlug)
	if err == nil || !errdef.IsNotFound(err) {
		return event, err
	}

	event, err = tx.FindEventBySlug(ctx, idOrSlug)
	if errdef.IsNotFound(err) {
		return nil, errdef.NewNotFound("failed to find event %q", idOrSlug)
	}
	return event, err
}

func (s service) Find(ctx context.Context, idOrSlug string) (*model.Event, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) (*model.Event, error) {
		return find(ctx, tx, idOrSlug)
	})
}

func (s service) FindAll(ctx context.Context) ([]model.Event, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.Event, error) {
		return tx.FindAllEvents(ctx)
	})
}

// FindActive returns the events currently running.
func (s service) FindActive(ctx context.Context) ([]model.Event, error) {
	return s.filter(ctx, func(event model.Event) bool { return event.IsActive })
}

// FindInactive returns the events which can be started.
func (s service) FindInactive(ctx context.Context) ([]model.Event, error) {
	return s.filter(ctx, func(event model.Event) bool { return !event.IsActive })
}

func (s service) filter(ctx context.Context, match func(model.Event) bool) ([]model.Event, error) {
	events, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Event, 0, len(events))
	for _, event := range events {
		if match(event) {
			result = append(result, event)
		}
	}
	return result, nil
}

// FindByName returns the event whose name or slug equals name, ignoring case.
func (s service) FindByName(ctx context.Context, name string) (*model.Event, error) {
	name = strings.TrimSpace(name)
	events, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		if strings.EqualFold(event.Name, name) || strings.EqualFold(event.Slug, name) {
			return &event, nil
		}
	}
	return nil, errdef.NewNotFound("failed to find event named %q", name)
}

// Start begins a new run of the event. Participations of earlier runs don't count towards the new
// one.
func (s service) Start(ctx context.Context, eventID string, startedBy model.Actor) (*model.Event, error) {
	var recorded model.Activity
	event, err := store.Query(ctx, s.store, func(tx store.Tx) (*model.Event, error) {
		event, err := find(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		if event.IsActive {
			return nil, errdef.NewInvalidTransition("event %q is already active", event.Name)
		}

		now := s.now()
		event.IsActive = true
		event.RunID = uuid.NewString()
		event.StartedAt = &now
		event.StartedBy = &startedBy.Name
		event.EndedAt = nil
		if err := tx.SaveEvent(ctx, event); err != nil {
			return nil, err
		}

		recorded, err = activity.Record(ctx, tx, model.ActivityEventStarted, &startedBy.DiscordID, "Evento %s iniciado", event.Name)
		if err != nil {
			return nil, err
		}
		return event, nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(recorded)
	return event, nil
}

// CheckIn adds the member to the current run of the event.
func (s service) CheckIn(ctx context.Context, eventID, memberID string) (*model.EventParticipation, error) {
	var recorded []model.Activity
	participation, err := store.Query(ctx, s.store, func(tx store.Tx) (*model.EventParticipation, error) {
		member, err := tx.FindMember(ctx, memberID)
		if err != nil {
			return nil, err
		}
		return s.checkIn(ctx, tx, eventID, member, &recorded)
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(recorded...)
	return participation, nil
}

// CheckInByDiscordID checks in the member known by discordID. A member is created from
// displayName if the guild doesn't know it yet.
func (s service) CheckInByDiscordID(ctx context.Context, eventID, discordID, displayName string) (*model.EventParticipation, error) {
	var recorded []model.Activity
	participation, err := store.Query(ctx, s.store, func(tx store.Tx) (*model.EventParticipation, error) {
		event, err := find(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		if !event.IsActive {
			return nil, errdef.NewInvalidTransition("event %q is not active", event.Name)
		}

		member, err := tx.FindMemberByDiscordID(ctx, discordID)
		if errdef.IsNotFound(err) {
			member = &model.Member{
				DiscordID: discordID,
				Name:      displayName,
				Class:     model.DefaultMemberClass,
				Level:     model.DefaultMemberLevel,
			}
			if err := tx.CreateMember(ctx, member); err != nil {
				return nil, err
			}
			a, err := activity.Record(ctx, tx, model.ActivityMemberCreated, &discordID, "%s entrou na guilda", member.Name)
			if err != nil {
				return nil, err
			}
			recorded = append(recorded, a)
		} else if err != nil {
			return nil, err
		}

		return s.checkIn(ctx, tx, event.ID, member, &recorded)
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(recorded...)
	return participation, nil
}

func (s service) checkIn(ctx context.Context, tx store.Tx, eventID string, member *model.Member, recorded *[]model.Activity) (*model.EventParticipation, error) {
	event, err := find(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, errdef.NewInvalidTransition("event %q is not active", event.Name)
	}

	_, err = tx.FindParticipation(ctx, event.ID, event.RunID, member.ID)
	if err == nil {
		return nil, errdef.NewAlreadyCheckedIn("member %q already checked in to event %q", member.Name, event.Name)
	}
	if !errdef.IsNotFound(err) {
		return nil, err
	}

	participation := &model.EventParticipation{
		EventID:     event.ID,
		RunID:       event.RunID,
		MemberID:    member.ID,
		CheckedInAt: s.now(),
	}
	if err := tx.CreateParticipation(ctx, participation); err != nil {
		if errdef.IsDuplicated(err) {
			return nil, errdef.NewAlreadyCheckedIn("member %q already checked in to event %q", member.Name, event.Name)
		}
		return nil, err
	}

	a, err := activity.Record(ctx, tx, model.ActivityCheckIn, &member.DiscordID, "%s fez check-in em %s", member.Name, event.Name)
	if err != nil {
		return nil, err
	}
	*recorded = append(*recorded, a)
	return participation, nil
}

// EndAndAwardPoints ends the current run of the event and awards its points to every member who
// checked in. The number of members awarded is returned. Ending an inactive event awards nobody.
func (s service) EndAndAwardPoints(ctx context.Context, eventID string, endedBy model.Actor) (int, error) {
	var recorded *model.Activity
	awarded, err := store.Query(ctx, s.store, func(tx store.Tx) (int, error) {
		event, err := find(ctx, tx, eventID)
		if err != nil {
			return 0, err
		}
		if !event.IsActive {
			return 0, nil
		}

		participations, err := tx.FindParticipations(ctx, event.ID, event.RunID)
		if err != nil {
			return 0, err
		}

		seen := make(map[string]struct{}, len(participations))
		for _, participation := range participations {
			if _, ok := seen[participation.MemberID]; ok {
				continue
			}
			seen[participation.MemberID] = struct{}{}

			member, err := tx.FindMember(ctx, participation.MemberID)
			if err != nil {
				return 0, err
			}
			member.EventPoints += event.Points
			if err := tx.SaveMember(ctx, member); err != nil {
				return 0, err
			}
		}

		now := s.now()
		event.IsActive = false
		event.EndedAt = &now
		if err := tx.SaveEvent(ctx, event); err != nil {
			return 0, err
		}

		a, err := activity.Record(ctx, tx, model.ActivityEventEnded, &endedBy.DiscordID, "Evento %s encerrado, %d participantes receberam %d pontos", event.Name, len(seen), event.Points)
		if err != nil {
			return 0, err
		}
		recorded = &a
		return len(seen), nil
	})
	if err != nil {
		return 0, err
	}

	if recorded != nil {
		s.feed.Publish(*recorded)
	}
	return awarded, nil
}

// Participants returns the participations of the current, or last, run of the event.
func (s service) Participants(ctx context.Context, eventID string) ([]model.EventParticipation, error) {
	return store.Query(ctx, s.store, func(tx store.Tx) ([]model.EventParticipation, error) {
		event, err := find(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		if event.RunID == "" {
			return []model.EventParticipation{}, nil
		}
		return tx.FindParticipations(ctx, event.ID, event.RunID)
	})
}
