package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/models"
	"gorm.io/gorm"
)

// CommissionService turns platform-fee events into the 4-level referral
// fan-out and settles accrued commissions into payouts. Every operation is
// one database transaction: balances and commission rows never disagree.
type CommissionService struct {
	db       *gorm.DB
	identity *IdentityService
	referral *ReferralService
	cfg      config.AppConfig
}

func NewCommissionService(db *gorm.DB, identity *IdentityService, referral *ReferralService, cfg config.AppConfig) *CommissionService {
	return &CommissionService{db: db, identity: identity, referral: referral, cfg: cfg}
}

// OnFeePaid fans a single fee payment out to the payer's ancestors, at most
// MaxCommissionDepth levels, crediting each ancestor's pending balance with
// the level's rate. Replaying a payment id is a no-op that returns the rows
// created the first time.
func (s *CommissionService) OnFeePaid(paymentID, payerPhone string) ([]models.Commission, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrInvalid)
	}

	var rows []models.Commission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		payer, err := s.identity.getByPhone(tx, payerPhone)
		if err != nil {
			return err
		}
		if payer == nil {
			return fmt.Errorf("%w: %s", ErrUnknownUser, payerPhone)
		}

		var existing []models.Commission
		if err := tx.Where("payment_id = ?", paymentID).Order("level ASC").Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			rows = existing
			return nil
		}

		chain, err := s.referral.ancestorsTx(tx, payerPhone, s.cfg.MaxCommissionDepth)
		if err != nil {
			return err
		}

		now := time.Now()
		due := now.AddDate(0, 0, s.cfg.CommissionDueDays)
		for _, ancestor := range chain {
			row := models.Commission{
				ID:             uuid.New(),
				PaymentID:      paymentID,
				RecipientPhone: ancestor.User.Phone,
				Level:          ancestor.Level,
				Amount:         s.cfg.CommissionRates[ancestor.Level-1],
				Status:         models.CommissionStatusPending,
				DueDate:        due,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			if err := s.identity.adjustCommissionBalanceTx(tx, row.RecipientPhone, row.Amount, 0); err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPending returns the recipient's unpaid commissions, oldest first.
func (s *CommissionService) ListPending(phone string) ([]models.Commission, error) {
	var rows []models.Commission
	err := s.db.
		Where("recipient_phone = ? AND status = ?", phone, models.CommissionStatusPending).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RequestPayout collapses the recipient's entire pending set into one paid
// batch. Partial payouts are not a thing: either the full balance clears the
// threshold and every pending row flips to paid, or nothing changes.
func (s *CommissionService) RequestPayout(phone string) (*models.Payout, error) {
	var payout models.Payout
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.identity.getByPhone(tx, phone)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %s", ErrNotFound, phone)
		}

		var pending []models.Commission
		if err := tx.Where("recipient_phone = ? AND status = ?", phone, models.CommissionStatusPending).
			Order("created_at ASC").Order("id ASC").
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return ErrEmptyPayout
		}

		var total int64
		ids := make([]uuid.UUID, 0, len(pending))
		for _, row := range pending {
			total += row.Amount
			ids = append(ids, row.ID)
		}
		if total < s.cfg.PayoutThreshold {
			return &BelowThresholdError{Balance: total, Threshold: s.cfg.PayoutThreshold}
		}

		now := time.Now()
		payout = models.Payout{
			ID:             uuid.New(),
			RecipientPhone: phone,
			TotalAmount:    total,
			CreatedAt:      now,
		}
		if err := tx.Create(&payout).Error; err != nil {
			return err
		}

		// Flip only the rows selected above; a concurrent fee event may add
		// new pending rows but they belong to the next payout.
		res := tx.Model(&models.Commission{}).
			Where("id IN ? AND status = ?", ids, models.CommissionStatusPending).
			Updates(map[string]interface{}{
				"status":    models.CommissionStatusPaid,
				"paid_at":   now,
				"payout_id": payout.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("payout %s: expected to settle %d commissions, settled %d", payout.ID, len(ids), res.RowsAffected)
		}

		if err := s.identity.adjustCommissionBalanceTx(tx, phone, -total, total); err != nil {
			return err
		}

		for i := range pending {
			pending[i].Status = models.CommissionStatusPaid
			pending[i].PaidAt = &now
			id := payout.ID
			pending[i].PayoutID = &id
		}
		payout.Commissions = pending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// ListPayouts returns the recipient's payout history, newest first.
func (s *CommissionService) ListPayouts(phone string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := s.db.
		Where("recipient_phone = ?", phone).
		Order("created_at DESC").Order("id DESC").
		Preload("Commissions").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}
