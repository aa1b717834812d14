package model

import "time"

// Event domain object defining a reusable guild event. Every start of an event begins a new run
// identified by RunID.
// swagger:model
type Event struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Position  int        `json:"-" gorm:"not null;default:0"`
	Slug      string     `json:"slug" gorm:"uniqueIndex;not null"`
	Name      string     `json:"name" gorm:"not null"`
	Points    int        `json:"points" gorm:"not null"`
	Emoji     string     `json:"emoji" gorm:"not null"`
	IsActive  bool       `json:"isActive" gorm:"not null;default:false"`
	RunID     string     `json:"runId,omitempty"`
	StartedAt *time.Time `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
	StartedBy *string    `json:"startedBy"`
}

// EventParticipation records a member checking in to a single run of an event
type EventParticipation struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	EventID     string    `json:"eventId" gorm:"index:idx_participation,unique;not null"`
	RunID       string    `json:"runId" gorm:"index:idx_participation,unique;not null"`
	MemberID    string    `json:"memberId" gorm:"index:idx_participation,unique;not null"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

// ItemDrop is an audit record of an item awarded during an event
// swagger:model
type ItemDrop struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"createdAt"`
	ItemName     string    `json:"itemName" gorm:"not null"`
	DiamondValue int       `json:"diamondValue" gorm:"not null"`
	EventID      string    `json:"eventId" gorm:"not null"`
	EventName    string    `json:"eventName" gorm:"not null"`
	Participants string    `json:"participants" gorm:"not null"`
	AddedBy      string    `json:"addedBy" gorm:"not null"`
}
