package handlers

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/middleware"
	"github.com/rahulg963/udhaarbook/services"
)

type ReferralHandler struct {
	identity *services.IdentityService
	referral *services.ReferralService
	cfg      config.AppConfig
}

func NewReferralHandler(identity *services.IdentityService, referral *services.ReferralService, cfg config.AppConfig) *ReferralHandler {
	return &ReferralHandler{identity: identity, referral: referral, cfg: cfg}
}

// GetMyReferrals is the referral dashboard: the caller's own code, the
// people they recruited, and the chain above them.
func (h *ReferralHandler) GetMyReferrals(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	user, err := h.identity.GetByPhone(phone)
	if err != nil {
		return serviceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	children, err := h.referral.DirectChildren(phone)
	if err != nil {
		return serviceError(c, err)
	}

	chain, err := h.referral.Ancestors(phone, h.cfg.MaxCommissionDepth)
	if err != nil {
		return serviceError(c, err)
	}

	type chainEntry struct {
		Phone    string `json:"phone"`
		FullName string `json:"full_name"`
		Level    int    `json:"level"`
	}
	ancestors := make([]chainEntry, 0, len(chain))
	for _, a := range chain {
		ancestors = append(ancestors, chainEntry{Phone: a.User.Phone, FullName: a.User.FullName, Level: a.Level})
	}

	return c.JSON(fiber.Map{
		"referral_code":      user.ReferralCode,
		"pending_commission": user.PendingCommission,
		"paid_commission":    user.PaidCommission,
		"direct_children":    children,
		"ancestors":          ancestors,
	})
}
