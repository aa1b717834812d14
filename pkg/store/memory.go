package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
	"github.com/talitamaia0609-debug/siter/pkg/model"
)

// NewMemory creates an empty in-memory store. A single mutex guards all entities, it's held for
// the duration of every transaction.
func NewMemory() *Memory {
	return &Memory{
		members:        newTable(cloneValue[model.Member]),
		events:         newTable(cloneEvent),
		participations: newTable(cloneValue[model.EventParticipation]),
		drops:          newTable(cloneValue[model.ItemDrop]),
		configs:        newTable(cloneValue[model.BotConfig]),
		activities:     newTable(cloneActivity),
		items:          newTable(cloneMarketplaceItem),
		transfers:      newTable(cloneTransfer),
		users:          newTable(cloneUser),
		now:            time.Now,
	}
}

type Memory struct {
	mu             sync.Mutex
	members        *table[model.Member]
	events         *table[model.Event]
	participations *table[model.EventParticipation]
	drops          *table[model.ItemDrop]
	configs        *table[model.BotConfig]
	activities     *table[model.Activity]
	items          *table[model.MarketplaceItem]
	transfers      *table[model.PointTransfer]
	users          *table[model.User]
	now            func() time.Time
}

func (m *Memory) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{m: m}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type memoryTx struct {
	m    *Memory
	undo []func()
}

func (tx *memoryTx) record(undo func()) {
	tx.undo = append(tx.undo, undo)
}

func (tx *memoryTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *memoryTx) newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func (tx *memoryTx) FindMember(_ context.Context, id string) (*model.Member, error) {
	member, ok := tx.m.members.get(id)
	if !ok {
		return nil, errdef.NewNotFound("failed to find member with id %q", id)
	}
	return &member, nil
}

func (tx *memoryTx) FindMemberByDiscordID(_ context.Context, discordID string) (*model.Member, error) {
	member, ok := tx.m.members.find(func(m model.Member) bool { return m.DiscordID == discordID })
	if !ok {
		return nil, errdef.NewNotFound("failed to find member with discord id %q", discordID)
	}
	return &member, nil
}

func (tx *memoryTx) FindAllMembers(_ context.Context) ([]model.Member, error) {
	return tx.m.members.all(), nil
}

func (tx *memoryTx) CreateMember(ctx context.Context, member *model.Member) error {
	if _, err := tx.FindMemberByDiscordID(ctx, member.DiscordID); err == nil {
		return errdef.NewDuplicated("member with discord id %q already exists", member.DiscordID)
	}

	member.ID = tx.newID(member.ID)
	if member.CreatedAt.IsZero() {
		member.CreatedAt = tx.m.now()
	}
	if _, ok := tx.m.members.get(member.ID); ok {
		return errdef.NewDuplicated("member %q already exists", member.ID)
	}
	tx.record(tx.m.members.put(member.ID, *member))
	return nil
}

func (tx *memoryTx) SaveMember(ctx context.Context, member *model.Member) error {
	if _, ok := tx.m.members.get(member.ID); !ok {
		return errdef.NewNotFound("failed to find member with id %q", member.ID)
	}
	if existing, err := tx.FindMemberByDiscordID(ctx, member.DiscordID); err == nil && existing.ID != member.ID {
		return errdef.NewDuplicated("member with discord id %q already exists", member.DiscordID)
	}
	tx.record(tx.m.members.put(member.ID, *member))
	return nil
}

func (tx *memoryTx) FindEvent(_ context.Context, id string) (*model.Event, error) {
	event, ok := tx.m.events.get(id)
	if !ok {
		return nil, errdef.NewNotFound("failed to find event with id %q", id)
	}
	return &event, nil
}

func (tx *memoryTx) FindEventBySlug(_ context.Context, slug string) (*model.Event, error) {
	event, ok := tx.m.events.find(func(e model.Event) bool { return e.Slug == slug })
	if !ok {
		return nil, errdef.NewNotFound("failed to find event with slug %q", slug)
	}
	return &event, nil
}

func (tx *memoryTx) FindAllEvents(_ context.Context) ([]model.Event, error) {
	events := tx.m.events.all()
	slices.SortStableFunc(events, func(a, b model.Event) int { return a.Position - b.Position })
	return events, nil
}

func (tx *memoryTx) CreateEvent(ctx context.Context, event *model.Event) error {
	if _, err := tx.FindEventBySlug(ctx, event.Slug); err == nil {
		return errdef.NewDuplicated("event with slug %q already exists", event.Slug)
	}
	event.ID = tx.newID(event.ID)
	if _, ok := tx.m.events.get(event.ID); ok {
		return errdef.NewDuplicated("event %q already exists", event.ID)
	}
	tx.record(tx.m.events.put(event.ID, *event))
	return nil
}

func (tx *memoryTx) SaveEvent(_ context.Context, event *model.Event) error {
	if _, ok := tx.m.events.get(event.ID); !ok {
		return errdef.NewNotFound("failed to find event with id %q", event.ID)
	}
	tx.record(tx.m.events.put(event.ID, *event))
	return nil
}

func (tx *memoryTx) CreateParticipation(ctx context.Context, participation *model.EventParticipation) error {
	if _, err := tx.FindParticipation(ctx, participation.EventID, participation.RunID, participation.MemberID); err == nil {
		return errdef.NewDuplicated("member %q already participates in run %q of event %q", participation.MemberID, participation.RunID, participation.EventID)
	}
	participation.ID = tx.newID(participation.ID)
	if participation.CheckedInAt.IsZero() {
		participation.CheckedInAt = tx.m.now()
	}
	tx.record(tx.m.participations.put(participation.ID, *participation))
	return nil
}

func (tx *memoryTx) FindParticipation(_ context.Context, eventID, runID, memberID string) (*model.EventParticipation, error) {
	participation, ok := tx.m.participations.find(func(p model.EventParticipation) bool {
		return p.EventID == eventID && p.RunID == runID && p.MemberID == memberID
	})
	if !ok {
		return nil, errdef.NewNotFound("failed to find participation of member %q in run %q of event %q", memberID, runID, eventID)
	}
	return &participation, nil
}

func (tx *memoryTx) FindParticipations(_ context.Context, eventID, runID string) ([]model.EventParticipation, error) {
	return tx.m.participations.filter(func(p model.EventParticipation) bool {
		return p.EventID == eventID && p.RunID == runID
	}), nil
}

func (tx *memoryTx) CreateItemDrop(_ context.Context, drop *model.ItemDrop) error {
	drop.ID = tx.newID(drop.ID)
	if drop.CreatedAt.IsZero() {
		drop.CreatedAt = tx.m.now()
	}
	tx.record(tx.m.drops.put(drop.ID, *drop))
	return nil
}

func (tx *memoryTx) FindAllItemDrops(_ context.Context) ([]model.ItemDrop, error) {
	return tx.m.drops.newestFirst(), nil
}

func (tx *memoryTx) FindBotConfig(_ context.Context, guildID string) (*model.BotConfig, error) {
	config, ok := tx.m.configs.find(func(c model.BotConfig) bool { return c.GuildID == guildID })
	if !ok {
		return nil, errdef.NewNotFound("failed to find bot configuration for guild %q", guildID)
	}
	return &config, nil
}

func (tx *memoryTx) SaveBotConfig(ctx context.Context, config *model.BotConfig) error {
	if existing, err := tx.FindBotConfig(ctx, config.GuildID); err == nil && existing.ID != config.ID {
		return errdef.NewDuplicated("bot configuration for guild %q already exists", config.GuildID)
	}
	config.ID = tx.newID(config.ID)
	config.UpdatedAt = tx.m.now()
	tx.record(tx.m.configs.put(config.ID, *config))
	return nil
}

func (tx *memoryTx) CreateActivity(_ context.Context, activity *model.Activity) error {
	activity.ID = tx.newID(activity.ID)
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = tx.m.now()
	}
	tx.record(tx.m.activities.put(activity.ID, *activity))
	return nil
}

func (tx *memoryTx) FindRecentActivities(_ context.Context, limit int) ([]model.Activity, error) {
	activities := tx.m.activities.newestFirst()
	if limit >= 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func (tx *memoryTx) CreateMarketplaceItem(_ context.Context, item *model.MarketplaceItem) error {
	item.ID = tx.newID(item.ID)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = tx.m.now()
	}
	if item.Status == "" {
		item.Status = model.MarketplaceItemAvailable
	}
	tx.record(tx.m.items.put(item.ID, *item))
	return nil
}

func (tx *memoryTx) FindAllMarketplaceItems(_ context.Context) ([]model.MarketplaceItem, error) {
	return tx.m.items.newestFirst(), nil
}

func (tx *memoryTx) CreatePointTransfer(_ context.Context, transfer *model.PointTransfer) error {
	transfer.ID = tx.newID(transfer.ID)
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = tx.m.now()
	}
	if transfer.Status == "" {
		transfer.Status = model.TransferPending
	}
	tx.record(tx.m.transfers.put(transfer.ID, *transfer))
	return nil
}

func (tx *memoryTx) FindPointTransfer(_ context.Context, id string) (*model.PointTransfer, error) {
	transfer, ok := tx.m.transfers.get(id)
	if !ok {
		return nil, errdef.NewNotFound("failed to find point transfer with id %q", id)
	}
	return &transfer, nil
}

func (tx *memoryTx) SavePointTransfer(_ context.Context, transfer *model.PointTransfer) error {
	if _, ok := tx.m.transfers.get(transfer.ID); !ok {
		return errdef.NewNotFound("failed to find point transfer with id %q", transfer.ID)
	}
	tx.record(tx.m.transfers.put(transfer.ID, *transfer))
	return nil
}

func (tx *memoryTx) FindAllPointTransfers(_ context.Context) ([]model.PointTransfer, error) {
	return tx.m.transfers.newestFirst(), nil
}

func (tx *memoryTx) FindUser(_ context.Context, id string) (*model.User, error) {
	user, ok := tx.m.users.get(id)
	if !ok {
		return nil, errdef.NewNotFound("failed to find user with id %q", id)
	}
	return &user, nil
}

func (tx *memoryTx) FindUserByDiscordID(_ context.Context, discordID string) (*model.User, error) {
	user, ok := tx.m.users.find(func(u model.User) bool { return u.DiscordID == discordID })
	if !ok {
		return nil, errdef.NewNotFound("failed to find user with discord id %q", discordID)
	}
	return &user, nil
}

func (tx *memoryTx) SaveUser(ctx context.Context, user *model.User) error {
	if existing, err := tx.FindUserByDiscordID(ctx, user.DiscordID); err == nil && existing.ID != user.ID {
		return errdef.NewDuplicated("user with discord id %q already exists", user.DiscordID)
	}
	user.ID = tx.newID(user.ID)
	now := tx.m.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	tx.record(tx.m.users.put(user.ID, *user))
	return nil
}

// table keeps rows in insertion order. Values are cloned on the way in and out so no caller ever
// shares memory with the store.
type table[T any] struct {
	rows  map[string]T
	order []string
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	return t.clone(v), true
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return t.clone(v), true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) filter(match func(T) bool) []T {
	result := make([]T, 0)
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			result = append(result, t.clone(v))
		}
	}
	return result
}

func (t *table[T]) all() []T {
	return t.filter(func(T) bool { return true })
}

func (t *table[T]) newestFirst() []T {
	result := t.all()
	slices.Reverse(result)
	return result
}

// put stores v under id and returns a function reverting the write. Reverts must be applied in
// the reverse order of the writes.
func (t *table[T]) put(id string, v T) func() {
	previous, existed := t.rows[id]
	t.rows[id] = t.clone(v)
	if existed {
		return func() { t.rows[id] = previous }
	}

	t.order = append(t.order, id)
	return func() {
		delete(t.rows, id)
		t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	}
}

func cloneValue[T any](v T) T {
	return v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneEvent(e model.Event) model.Event {
	e.StartedAt = clonePtr(e.StartedAt)
	e.EndedAt = clonePtr(e.EndedAt)
	e.StartedBy = clonePtr(e.StartedBy)
	return e
}

func cloneActivity(a model.Activity) model.Activity {
	a.UserID = clonePtr(a.UserID)
	return a
}

func cloneMarketplaceItem(i model.MarketplaceItem) model.MarketplaceItem {
	i.Description = clonePtr(i.Description)
	return i
}

func cloneTransfer(t model.PointTransfer) model.PointTransfer {
	t.ApprovedBy = clonePtr(t.ApprovedBy)
	return t
}

func cloneUser(u model.User) model.User {
	u.Discriminator = clonePtr(u.Discriminator)
	u.Email = clonePtr(u.Email)
	u.Avatar = clonePtr(u.Avatar)
	u.AccessToken = clonePtr(u.AccessToken)
	u.RefreshToken = clonePtr(u.RefreshToken)
	return u
}
