package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core services. Handlers match them with
// errors.Is and map them to HTTP statuses; anything else is a storage
// failure and bubbles up untouched.
var (
	ErrInvalid         = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("not authorized")
	ErrAlreadySettled  = errors.New("transaction already settled")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnknownReferrer = errors.New("unknown referrer code")
	ErrUnknownUser     = errors.New("unknown user")
	ErrSelfTransfer    = errors.New("cannot record a transaction with yourself")
	ErrEmptyPayout     = errors.New("no pending commissions to pay out")
	ErrCodeExhausted   = errors.New("referral code generation exhausted")
	ErrMalformedChain  = errors.New("referral chain is malformed")
)

// BelowThresholdError reports a payout request that cannot proceed because
// the recipient's pending balance has not reached the threshold.
type BelowThresholdError struct {
	Balance   int64
	Threshold int64
}

func (e *BelowThresholdError) Error() string {
	return fmt.Sprintf("pending balance %d below payout threshold %d", e.Balance, e.Threshold)
}
