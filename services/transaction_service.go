package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/models"
	"gorm.io/gorm"
)

// TransactionFilter selects a slice of a user's transaction history.
type TransactionFilter string

const (
	FilterAll             TransactionFilter = "all"
	FilterPendingOutgoing TransactionFilter = "pending-outgoing"
	FilterPendingIncoming TransactionFilter = "pending-incoming"
	FilterConfirmed       TransactionFilter = "confirmed"
	FilterDenied          TransactionFilter = "denied"
	FilterSent            TransactionFilter = "sent"
	FilterReceived        TransactionFilter = "received"
)

// ParseTransactionFilter maps a query-string value to a filter; the empty
// string means "all".
func ParseTransactionFilter(s string) (TransactionFilter, error) {
	switch TransactionFilter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPendingOutgoing, FilterPendingIncoming,
		FilterConfirmed, FilterDenied, FilterSent, FilterReceived:
		return TransactionFilter(s), nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", ErrInvalid, s)
}

// TransactionService enforces the two-phase protocol: one side records a
// pending transaction, the other side confirms or denies it. Confirmed and
// denied rows are immutable.
type TransactionService struct {
	db       *gorm.DB
	identity *IdentityService
	cfg      config.AppConfig
}

func NewTransactionService(db *gorm.DB, identity *IdentityService, cfg config.AppConfig) *TransactionService {
	return &TransactionService{db: db, identity: identity, cfg: cfg}
}

type SubmitInput struct {
	InitiatorPhone    string
	CounterpartyPhone string
	Amount            int64
	Description       string
	Direction         models.TransactionDirection
}

// Submit records a pending transaction. The initiator declares their own
// side with Direction: "gave" puts them on the from (debtor) side, "got"
// on the to (creditor) side. Only the counterparty can settle it.
func (s *TransactionService) Submit(in SubmitInput) (*models.Transaction, error) {
	if in.Amount < 1 || in.Amount > s.cfg.AmountMax {
		return nil, fmt.Errorf("%w: amount must be between 1 and %d", ErrInvalid, s.cfg.AmountMax)
	}
	if len(in.Description) > s.cfg.DescriptionMaxLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalid, s.cfg.DescriptionMaxLength)
	}
	if in.Direction != models.DirectionGave && in.Direction != models.DirectionGot {
		return nil, fmt.Errorf("%w: direction must be %q or %q", ErrInvalid, models.DirectionGave, models.DirectionGot)
	}
	if in.InitiatorPhone == in.CounterpartyPhone {
		return nil, ErrSelfTransfer
	}

	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, phone := range []string{in.InitiatorPhone, in.CounterpartyPhone} {
			user, err := s.identity.getByPhone(tx, phone)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("%w: %s", ErrUnknownUser, phone)
			}
		}

		from, to := in.InitiatorPhone, in.CounterpartyPhone
		if in.Direction == models.DirectionGot {
			from, to = in.CounterpartyPhone, in.InitiatorPhone
		}

		txn = models.Transaction{
			ID:          uuid.New(),
			FromPhone:   from,
			ToPhone:     to,
			Amount:      in.Amount,
			Description: in.Description,
			InitiatedBy: in.InitiatorPhone,
			Status:      models.TransactionStatusPending,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Confirm settles a pending transaction into the ledger. Only the
// counterparty may confirm; of two concurrent settle attempts exactly one
// wins, the other sees ErrAlreadySettled.
func (s *TransactionService) Confirm(id uuid.UUID, actorPhone string) (*models.Transaction, error) {
	return s.settle(id, actorPhone, models.TransactionStatusConfirmed)
}

// Deny rejects a pending transaction. The row is kept for audit but never
// contributes to any balance.
func (s *TransactionService) Deny(id uuid.UUID, actorPhone string) (*models.Transaction, error) {
	return s.settle(id, actorPhone, models.TransactionStatusDenied)
}

func (s *TransactionService) settle(id uuid.UUID, actorPhone string, target models.TransactionStatus) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: transaction %s", ErrNotFound, id)
			}
			return err
		}
		if txn.Status != models.TransactionStatusPending {
			return fmt.Errorf("%w: transaction %s is %s", ErrAlreadySettled, id, txn.Status)
		}
		if actorPhone != txn.Counterparty() {
			return fmt.Errorf("%w: only %s may settle transaction %s", ErrUnauthorized, txn.Counterparty(), id)
		}

		now := time.Now()
		// Conditional update so a concurrent settle cannot apply twice; the
		// status guard makes the loser observe zero affected rows.
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", id, models.TransactionStatusPending).
			Updates(map[string]interface{}{"status": target, "settled_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: transaction %s", ErrAlreadySettled, id)
		}
		txn.Status = target
		txn.SettledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListForUser returns the user's transactions, newest first, narrowed by
// the filter. Pending-outgoing are the ones the user submitted and is
// waiting on; pending-incoming await the user's own confirmation.
func (s *TransactionService) ListForUser(phone string, filter TransactionFilter) ([]models.Transaction, error) {
	user, err := s.identity.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, phone)
	}

	q := s.db.Where("from_phone = ? OR to_phone = ?", phone, phone)
	switch filter {
	case FilterAll:
	case FilterPendingOutgoing:
		q = q.Where("status = ? AND initiated_by = ?", models.TransactionStatusPending, phone)
	case FilterPendingIncoming:
		q = q.Where("status = ? AND initiated_by <> ?", models.TransactionStatusPending, phone)
	case FilterConfirmed:
		q = q.Where("status = ?", models.TransactionStatusConfirmed)
	case FilterDenied:
		q = q.Where("status = ?", models.TransactionStatusDenied)
	case FilterSent:
		q = q.Where("from_phone = ?", phone)
	case FilterReceived:
		q = q.Where("to_phone = ?", phone)
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalid, filter)
	}

	var txns []models.Transaction
	if err := q.Order("created_at DESC").Order("id DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
