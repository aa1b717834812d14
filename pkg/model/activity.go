package model

import "time"

type ActivityType string

const (
	ActivityMemberCreated     ActivityType = "member_created"
	ActivityEventStarted      ActivityType = "event_started"
	ActivityCheckIn           ActivityType = "check_in"
	ActivityEventEnded        ActivityType = "event_ended"
	ActivityItemDrop          ActivityType = "item_drop"
	ActivityTransferRequested ActivityType = "transfer_requested"
	ActivityTransferApproved  ActivityType = "transfer_approved"
	ActivityMarketplaceListed ActivityType = "marketplace_listed"
)

// Actor is the Discord user behind an operation. DiscordID is recorded as the user of the
// activity, Name is shown where the entity keeps who acted.
type Actor struct {
	DiscordID string
	Name      string
}

// Activity is an entry in the guild activity feed
// swagger:model
type Activity struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"index"`
	Type        ActivityType `json:"type" gorm:"not null"`
	Description string       `json:"description" gorm:"not null"`
	UserID      *string      `json:"userId"`
}
