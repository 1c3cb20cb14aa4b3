package services

import (
	"errors"
	"fmt"

	"github.com/rahulg963/udhaarbook/models"
	"gorm.io/gorm"
)

// Ancestor is one step of a referral chain; Level 1 is the direct referrer.
type Ancestor struct {
	User  models.User
	Level int
}

// ReferralService answers ancestor and descendant queries over the implicit
// referral edges (user.ReferredByCode → referrer.ReferralCode). It owns no
// state of its own; every answer reflects the identity store at query time.
type ReferralService struct {
	db *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{db: db}
}

// Ancestors walks up the referral chain from the given user, stopping at
// maxDepth or at a root user. A repeated phone means the chain is cyclic,
// which creation is supposed to have prevented; the walk aborts with
// ErrMalformedChain rather than loop.
func (s *ReferralService) Ancestors(phone string, maxDepth int) ([]Ancestor, error) {
	return s.ancestorsTx(s.db, phone, maxDepth)
}

func (s *ReferralService) ancestorsTx(tx *gorm.DB, phone string, maxDepth int) ([]Ancestor, error) {
	var start models.User
	if err := tx.Where("phone = ?", phone).First(&start).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, phone)
		}
		return nil, err
	}

	seen := map[string]bool{start.Phone: true}
	chain := make([]Ancestor, 0, maxDepth)

	current := start
	for level := 1; level <= maxDepth; level++ {
		if current.ReferredByCode == nil {
			break
		}
		var parent models.User
		if err := tx.Where("referral_code = ?", *current.ReferredByCode).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: code %s has no owner", ErrMalformedChain, *current.ReferredByCode)
			}
			return nil, err
		}
		if seen[parent.Phone] {
			return nil, fmt.Errorf("%w: cycle at %s", ErrMalformedChain, parent.Phone)
		}
		seen[parent.Phone] = true
		chain = append(chain, Ancestor{User: parent, Level: level})
		current = parent
	}
	return chain, nil
}

// DirectChildren returns the users recruited directly by the given user.
func (s *ReferralService) DirectChildren(phone string) ([]models.User, error) {
	var owner models.User
	if err := s.db.Where("phone = ?", phone).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, phone)
		}
		return nil, err
	}

	var children []models.User
	if err := s.db.Where("referred_by_code = ?", owner.ReferralCode).
		Order("created_at ASC").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}
