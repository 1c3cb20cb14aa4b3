package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusDenied    TransactionStatus = "denied"
)

// TransactionDirection is what the submitter claims about themselves:
// "gave" makes the initiator the debtor (from side), "got" makes them
// the creditor (to side).
type TransactionDirection string

const (
	DirectionGave TransactionDirection = "gave"
	DirectionGot  TransactionDirection = "got"
)

// Transaction is a recorded debt between two registered users. It is
// created pending by one side and becomes part of the ledger only after
// the other side confirms it. fromPhone owes toPhone the amount.
type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromPhone   string    `gorm:"size:10;not null;index" json:"from_phone"`
	ToPhone     string    `gorm:"size:10;not null;index" json:"to_phone"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:200" json:"description"`

	// InitiatedBy is always one of FromPhone/ToPhone; the other party is
	// the only one allowed to confirm or deny.
	InitiatedBy string            `gorm:"size:10;not null" json:"initiated_by"`
	Status      TransactionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Counterparty returns the phone of the party that must confirm or deny.
func (t *Transaction) Counterparty() string {
	if t.InitiatedBy == t.FromPhone {
		return t.ToPhone
	}
	return t.FromPhone
}

// Involves reports whether the given phone is one of the two principals.
func (t *Transaction) Involves(phone string) bool {
	return t.FromPhone == phone || t.ToPhone == phone
}
