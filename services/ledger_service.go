package services

import (
	"github.com/rahulg963/udhaarbook/models"
	"gorm.io/gorm"
)

// UserTotals is the confirmed-only view of a user's position: what the
// world owes them, what they owe the world, and the difference.
type UserTotals struct {
	Receivable int64 `json:"receivable"`
	Payable    int64 `json:"payable"`
	Net        int64 `json:"net"`
}

// LedgerService is a pure projection of confirmed transactions. Pending and
// denied rows never show up in any of its answers.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// PairBalance returns the net position of a against b: positive means b
// owes a (a is the creditor).
func (s *LedgerService) PairBalance(a, b string) (int64, error) {
	owedToA, err := s.confirmedSum("from_phone = ? AND to_phone = ?", b, a)
	if err != nil {
		return 0, err
	}
	owedByA, err := s.confirmedSum("from_phone = ? AND to_phone = ?", a, b)
	if err != nil {
		return 0, err
	}
	return owedToA - owedByA, nil
}

// UserTotals sums the user's confirmed receivables and payables.
func (s *LedgerService) UserTotals(phone string) (UserTotals, error) {
	receivable, err := s.confirmedSum("to_phone = ?", phone)
	if err != nil {
		return UserTotals{}, err
	}
	payable, err := s.confirmedSum("from_phone = ?", phone)
	if err != nil {
		return UserTotals{}, err
	}
	return UserTotals{
		Receivable: receivable,
		Payable:    payable,
		Net:        receivable - payable,
	}, nil
}

// Recent returns up to k of the newest confirmed transactions involving the
// user.
func (s *LedgerService) Recent(phone string, k int) ([]models.Transaction, error) {
	if k <= 0 {
		return nil, nil
	}
	var txns []models.Transaction
	err := s.db.
		Where("status = ? AND (from_phone = ? OR to_phone = ?)", models.TransactionStatusConfirmed, phone, phone).
		Order("created_at DESC").Order("id DESC").
		Limit(k).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *LedgerService) confirmedSum(cond string, args ...interface{}) (int64, error) {
	var total int64
	err := s.db.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusConfirmed).
		Where(cond, args...).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
