package models

import (
	"time"

	"github.com/google/uuid"
)

type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// Commission is one level of the referral fan-out of a single platform-fee
// payment. At most one row exists per (payment, recipient, level); the rows
// of one payment cover levels 1..n for the payer's ancestor chain.
type Commission struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID      string    `gorm:"size:64;not null;index;uniqueIndex:idx_commission_payment_recipient_level" json:"payment_id"`
	RecipientPhone string    `gorm:"size:10;not null;index;uniqueIndex:idx_commission_payment_recipient_level" json:"recipient_phone"`
	Level          int       `gorm:"not null;uniqueIndex:idx_commission_payment_recipient_level" json:"level"`
	Amount         int64     `gorm:"not null" json:"amount"`

	Status  CommissionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DueDate time.Time        `gorm:"not null" json:"due_date"`

	PaidAt   *time.Time `json:"paid_at,omitempty"`
	PayoutID *uuid.UUID `gorm:"type:uuid;index" json:"payout_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
