package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/models"
	"github.com/rahulg963/udhaarbook/utils"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// IdentityService is the source of truth for user accounts. Phone and the
// referral codes are frozen at creation; only profile fields and the two
// commission balances ever change afterwards.
type IdentityService struct {
	db  *gorm.DB
	cfg config.AppConfig
}

func NewIdentityService(db *gorm.DB, cfg config.AppConfig) *IdentityService {
	return &IdentityService{db: db, cfg: cfg}
}

type CreateUserInput struct {
	Phone          string
	FullName       string
	Email          *string
	PinHash        string
	ReferredByCode *string
}

// CreateUser registers a new account, generating a unique referral code for
// it and, when a referrer code is given, pinning the account under that
// referrer. The whole registration is one database transaction.
func (s *IdentityService) CreateUser(in CreateUserInput) (*models.User, error) {
	if !phonePattern.MatchString(in.Phone) {
		return nil, fmt.Errorf("%w: phone must be 10 digits", ErrInvalid)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalid)
	}
	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalid)
	}
	if in.ReferredByCode != nil && strings.TrimSpace(*in.ReferredByCode) == "" {
		in.ReferredByCode = nil
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("phone = ?", in.Phone).First(&existing).Error; err == nil {
			return fmt.Errorf("%w: phone %s is already registered", ErrAlreadyExists, in.Phone)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if in.ReferredByCode != nil {
			var referrer models.User
			if err := tx.Where("referral_code = ?", *in.ReferredByCode).First(&referrer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrUnknownReferrer, *in.ReferredByCode)
				}
				return err
			}
			// A fresh account has no descendants, so the referrer's chain
			// cannot contain it. Checked anyway: the graph must stay a forest.
			if err := assertNotInChain(tx, referrer, in.Phone, s.cfg.MaxCommissionDepth); err != nil {
				return err
			}
		}

		code, err := s.uniqueReferralCode(tx)
		if err != nil {
			return err
		}

		user = models.User{
			Phone:          in.Phone,
			FullName:       strings.TrimSpace(in.FullName),
			Email:          in.Email,
			PinHash:        in.PinHash,
			ReferralCode:   code,
			ReferredByCode: in.ReferredByCode,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: phone %s is already registered", ErrAlreadyExists, in.Phone)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// uniqueReferralCode retries random generation inside the registration
// transaction and gives up after the configured number of attempts.
func (s *IdentityService) uniqueReferralCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < s.cfg.ReferralCodeRetries; attempt++ {
		code := utils.GenerateReferralCode(s.cfg.ReferralCodeAlphabet, s.cfg.ReferralCodeLength)

		var taken models.User
		err := tx.Where("referral_code = ?", code).First(&taken).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrCodeExhausted
}

// assertNotInChain rejects a referrer whose own ancestry already contains
// the new phone, which would close a referral cycle.
func assertNotInChain(tx *gorm.DB, referrer models.User, phone string, maxDepth int) error {
	current := referrer
	for level := 0; level <= maxDepth; level++ {
		if current.Phone == phone {
			return fmt.Errorf("%w: referrer chain contains %s", ErrInvalid, phone)
		}
		if current.ReferredByCode == nil {
			return nil
		}
		var parent models.User
		if err := tx.Where("referral_code = ?", *current.ReferredByCode).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		current = parent
	}
	return nil
}

// GetByPhone returns the user or nil when no account exists.
func (s *IdentityService) GetByPhone(phone string) (*models.User, error) {
	return s.getByPhone(s.db, phone)
}

func (s *IdentityService) getByPhone(tx *gorm.DB, phone string) (*models.User, error) {
	var user models.User
	if err := tx.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByReferralCode returns the owner of a referral code or nil.
func (s *IdentityService) GetByReferralCode(code string) (*models.User, error) {
	return s.getByReferralCode(s.db, code)
}

func (s *IdentityService) getByReferralCode(tx *gorm.DB, code string) (*models.User, error) {
	var user models.User
	if err := tx.Where("referral_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	FullName *string
	Email    *string
}

// UpdateProfile changes the mutable profile fields only.
func (s *IdentityService) UpdateProfile(phone string, in UpdateProfileInput) (*models.User, error) {
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return nil, fmt.Errorf("%w: full name cannot be blank", ErrInvalid)
	}
	if in.Email != nil && !strings.Contains(*in.Email, "@") {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalid)
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", phone).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, phone)
			}
			return err
		}
		if in.FullName != nil {
			user.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.Email != nil {
			user.Email = in.Email
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AdjustCommissionBalance applies the two deltas atomically and fails the
// whole operation if either balance would go negative. Only the commission
// engine calls this.
func (s *IdentityService) AdjustCommissionBalance(phone string, deltaPending, deltaPaid int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.adjustCommissionBalanceTx(tx, phone, deltaPending, deltaPaid)
	})
}

func (s *IdentityService) adjustCommissionBalanceTx(tx *gorm.DB, phone string, deltaPending, deltaPaid int64) error {
	res := tx.Model(&models.User{}).
		Where("phone = ? AND pending_commission + ? >= 0 AND paid_commission + ? >= 0", phone, deltaPending, deltaPaid).
		Updates(map[string]interface{}{
			"pending_commission": gorm.Expr("pending_commission + ?", deltaPending),
			"paid_commission":    gorm.Expr("paid_commission + ?", deltaPaid),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		user, err := s.getByPhone(tx, phone)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %s", ErrNotFound, phone)
		}
		return fmt.Errorf("%w: balance adjustment for %s would go negative", ErrInvalid, phone)
	}
	return nil
}
