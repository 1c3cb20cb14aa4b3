package models

import (
	"time"

	"github.com/google/uuid"
)

// Payout settles the full pending-commission set of one recipient in a
// single batch. TotalAmount equals the sum of the referenced commissions,
// which flipped pending→paid atomically with the payout's creation.
type Payout struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientPhone string    `gorm:"size:10;not null;index" json:"recipient_phone"`
	TotalAmount    int64     `gorm:"not null" json:"total_amount"`

	Commissions []Commission `gorm:"foreignKey:PayoutID" json:"commissions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
