package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewPostgres creates a store backed by db. The schema is expected to be migrated already, see
// storage.NewDatabase. db must be opened with TranslateError so unique violations are reported as
// gorm.ErrDuplicatedKey.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

type Postgres struct {
	db *gorm.DB
}

// Transaction runs fn in a database transaction. Events read within fn are locked until the
// transaction ends so lifecycle transitions of the same event never interleave.
func (p *Postgres) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return p.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (tx *gormTx) first(ctx context.Context, dest any, what string, query string, args ...any) error {
	err := tx.db.WithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errdef.NewNotFound("failed to find %s", what)
	}
	if err != nil {
		return fmt.Errorf("failed to find %s: %v", what, err)
	}
	return nil
}

func (tx *gormTx) create(ctx context.Context, value any, what string) error {
	err := tx.db.WithContext(ctx).Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("%s already exists", what)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", what, err)
	}
	return nil
}

// update writes every column of value. It fails with a not found error if no row was updated.
func (tx *gormTx) update(ctx context.Context, value any, what string) error {
	result := tx.db.WithContext(ctx).Model(value).Select("*").Updates(value)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("%s already exists", what)
	}
	if result.Error != nil {
		return fmt.Errorf("failed to save %s: %v", what, result.Error)
	}
	if result.RowsAffected < 1 {
		return errdef.NewNotFound("failed to find %s", what)
	}
	return nil
}

// upsert creates value if it has no id yet and saves it otherwise.
func (tx *gormTx) upsert(ctx context.Context, id *string, value any, what string) error {
	if *id == "" {
		*id = uuid.NewString()
		return tx.create(ctx, value, what)
	}

	err := tx.db.WithContext(ctx).Save(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("%s already exists", what)
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %v", what, err)
	}
	return nil
}

func (tx *gormTx) list(ctx context.Context, dest any, order string, what string) error {
	err := tx.db.WithContext(ctx).Order(order).Find(dest).Error
	if err != nil {
		return fmt.Errorf("failed to find %s: %v", what, err)
	}
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (tx *gormTx) FindMember(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	if err := tx.first(ctx, &member, fmt.Sprintf("member with id %q", id), "id = ?", id); err != nil {
		return nil, err
	}
	return &member, nil
}

func (tx *gormTx) FindMemberByDiscordID(ctx context.Context, discordID string) (*model.Member, error) {
	var member model.Member
	if err := tx.first(ctx, &member, fmt.Sprintf("member with discord id %q", discordID), "discord_id = ?", discordID); err != nil {
		return nil, err
	}
	return &member, nil
}

func (tx *gormTx) FindAllMembers(ctx context.Context) ([]model.Member, error) {
	members := make([]model.Member, 0)
	err := tx.list(ctx, &members, "created_at", "members")
	return members, err
}

func (tx *gormTx) CreateMember(ctx context.Context, member *model.Member) error {
	assignID(&member.ID)
	return tx.create(ctx, member, fmt.Sprintf("member with discord id %q", member.DiscordID))
}

func (tx *gormTx) SaveMember(ctx context.Context, member *model.Member) error {
	return tx.update(ctx, member, fmt.Sprintf("member with id %q", member.ID))
}

func (tx *gormTx) FindEvent(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := tx.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with id %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event with id %q: %v", id, err)
	}
	return &event, nil
}

func (tx *gormTx) FindEventBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var event model.Event
	err := tx.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("slug = ?", slug).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with slug %q", slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event with slug %q: %v", slug, err)
	}
	return &event, nil
}

func (tx *gormTx) FindAllEvents(ctx context.Context) ([]model.Event, error) {
	events := make([]model.Event, 0)
	err := tx.list(ctx, &events, "position", "events")
	return events, err
}

func (tx *gormTx) CreateEvent(ctx context.Context, event *model.Event) error {
	assignID(&event.ID)
	return tx.create(ctx, event, fmt.Sprintf("event with slug %q", event.Slug))
}

func (tx *gormTx) SaveEvent(ctx context.Context, event *model.Event) error {
	return tx.update(ctx, event, fmt.Sprintf("event with id %q", event.ID))
}

func (tx *gormTx) CreateParticipation(ctx context.Context, participation *model.EventParticipation) error {
	assignID(&participation.ID)
	if participation.CheckedInAt.IsZero() {
		participation.CheckedInAt = time.Now()
	}
	what := fmt.Sprintf("participation of member %q in run %q of event %q", participation.MemberID, participation.RunID, participation.EventID)
	return tx.create(ctx, participation, what)
}

func (tx *gormTx) FindParticipation(ctx context.Context, eventID, runID, memberID string) (*model.EventParticipation, error) {
	var participation model.EventParticipation
	what := fmt.Sprintf("participation of member %q in run %q of event %q", memberID, runID, eventID)
	err := tx.first(ctx, &participation, what, "event_id = ? AND run_id = ? AND member_id = ?", eventID, runID, memberID)
	if err != nil {
		return nil, err
	}
	return &participation, nil
}

func (tx *gormTx) FindParticipations(ctx context.Context, eventID, runID string) ([]model.EventParticipation, error) {
	participations := make([]model.EventParticipation, 0)
	err := tx.db.WithContext(ctx).
		Where("event_id = ? AND run_id = ?", eventID, runID).
		Order("checked_in_at").
		Find(&participations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find participations of run %q of event %q: %v", runID, eventID, err)
	}
	return participations, nil
}

func (tx *gormTx) CreateItemDrop(ctx context.Context, drop *model.ItemDrop) error {
	assignID(&drop.ID)
	return tx.create(ctx, drop, fmt.Sprintf("item drop %q", drop.ID))
}

func (tx *gormTx) FindAllItemDrops(ctx context.Context) ([]model.ItemDrop, error) {
	drops := make([]model.ItemDrop, 0)
	err := tx.list(ctx, &drops, "created_at desc", "item drops")
	return drops, err
}

func (tx *gormTx) FindBotConfig(ctx context.Context, guildID string) (*model.BotConfig, error) {
	var config model.BotConfig
	if err := tx.first(ctx, &config, fmt.Sprintf("bot configuration for guild %q", guildID), "guild_id = ?", guildID); err != nil {
		return nil, err
	}
	return &config, nil
}

func (tx *gormTx) SaveBotConfig(ctx context.Context, config *model.BotConfig) error {
	return tx.upsert(ctx, &config.ID, config, fmt.Sprintf("bot configuration for guild %q", config.GuildID))
}

func (tx *gormTx) CreateActivity(ctx context.Context, activity *model.Activity) error {
	assignID(&activity.ID)
	return tx.create(ctx, activity, fmt.Sprintf("activity %q", activity.ID))
}

func (tx *gormTx) FindRecentActivities(ctx context.Context, limit int) ([]model.Activity, error) {
	activities := make([]model.Activity, 0)
	err := tx.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find activities: %v", err)
	}
	return activities, nil
}

func (tx *gormTx) CreateMarketplaceItem(ctx context.Context, item *model.MarketplaceItem) error {
	assignID(&item.ID)
	if item.Status == "" {
		item.Status = model.MarketplaceItemAvailable
	}
	return tx.create(ctx, item, fmt.Sprintf("marketplace item %q", item.ID))
}

func (tx *gormTx) FindAllMarketplaceItems(ctx context.Context) ([]model.MarketplaceItem, error) {
	items := make([]model.MarketplaceItem, 0)
	err := tx.list(ctx, &items, "created_at desc", "marketplace items")
	return items, err
}

func (tx *gormTx) CreatePointTransfer(ctx context.Context, transfer *model.PointTransfer) error {
	assignID(&transfer.ID)
	if transfer.Status == "" {
		transfer.Status = model.TransferPending
	}
	return tx.create(ctx, transfer, fmt.Sprintf("point transfer %q", transfer.ID))
}

func (tx *gormTx) FindPointTransfer(ctx context.Context, id string) (*model.PointTransfer, error) {
	var transfer model.PointTransfer
	err := tx.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&transfer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find point transfer with id %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find point transfer with id %q: %v", id, err)
	}
	return &transfer, nil
}

func (tx *gormTx) SavePointTransfer(ctx context.Context, transfer *model.PointTransfer) error {
	return tx.update(ctx, transfer, fmt.Sprintf("point transfer with id %q", transfer.ID))
}

func (tx *gormTx) FindAllPointTransfers(ctx context.Context) ([]model.PointTransfer, error) {
	transfers := make([]model.PointTransfer, 0)
	err := tx.list(ctx, &transfers, "created_at desc", "point transfers")
	return transfers, err
}

func (tx *gormTx) FindUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := tx.first(ctx, &user, fmt.Sprintf("user with id %q", id), "id = ?", id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (tx *gormTx) FindUserByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	var user model.User
	if err := tx.first(ctx, &user, fmt.Sprintf("user with discord id %q", discordID), "discord_id = ?", discordID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (tx *gormTx) SaveUser(ctx context.Context, user *model.User) error {
	return tx.upsert(ctx, &user.ID, user, fmt.Sprintf("user with discord id %q", user.DiscordID))
}
