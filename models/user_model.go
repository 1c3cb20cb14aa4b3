package models

import (
	"time"
)

// User is keyed by the 10-digit phone number the account was registered
// with. Phone, ReferralCode and ReferredByCode are frozen at creation;
// accounts are never deleted.
type User struct {
	Phone    string  `gorm:"size:10;primaryKey" json:"phone"`
	FullName string  `gorm:"size:255;not null" json:"full_name"`
	Email    *string `gorm:"size:255" json:"email,omitempty"`
	PinHash  string  `gorm:"not null" json:"-"`

	ReferralCode   string  `gorm:"size:10;not null;unique" json:"referral_code"`
	ReferredByCode *string `gorm:"size:10;index" json:"referred_by_code,omitempty"`

	// Commission balances in paise. PendingCommission always equals the sum
	// of this user's pending commission rows; PaidCommission never decreases.
	PendingCommission int64 `gorm:"not null;default:0" json:"pending_commission"`
	PaidCommission    int64 `gorm:"not null;default:0" json:"paid_commission"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
