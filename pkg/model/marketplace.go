package model

import "time"

const (
	MarketplaceItemAvailable = "available"
	MarketplaceItemSold      = "sold"
)

// MarketplaceItem domain object defining an item listed by a member
// swagger:model
type MarketplaceItem struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"createdAt"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	SellerID    string    `json:"sellerId" gorm:"not null"`
	Price       int       `json:"price" gorm:"not null"`
	Status      string    `json:"status" gorm:"not null;default:available"`
}
