package model

import "time"

// BotConfig holds the per guild configuration of the bot
type BotConfig struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	GuildID            string    `json:"guildId" gorm:"uniqueIndex;not null"`
	EventManagerRoleID string    `json:"eventManagerRoleId"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
