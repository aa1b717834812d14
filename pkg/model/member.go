package model

import "time"

// Default attributes given to a member which is created on its first event check-in
const (
	DefaultMemberClass = "Aventureiro"
	DefaultMemberLevel = 1
)

// Member domain object defining a guild member
// swagger:model
type Member struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"createdAt"`
	DiscordID   string    `json:"discordId" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Class       string    `json:"class" gorm:"not null"`
	Level       int       `json:"level" gorm:"not null"`
	Power       int       `json:"power" gorm:"not null;default:0"`
	EventPoints int       `json:"eventPoints" gorm:"not null;default:0"`
}
