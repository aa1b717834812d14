package model

import "time"

const (
	TransferPending  = "pending"
	TransferApproved = "approved"
)

// PointTransfer domain object defining a transfer of event points between two members
// swagger:model
type PointTransfer struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"createdAt"`
	FromMemberID string    `json:"fromMemberId" gorm:"not null"`
	ToMemberID   string    `json:"toMemberId" gorm:"not null"`
	Points       int       `json:"points" gorm:"not null"`
	ApprovedBy   *string   `json:"approvedBy"`
	Status       string    `json:"status" gorm:"not null;default:pending"`
}
