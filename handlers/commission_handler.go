package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/middleware"
	"github.com/rahulg963/udhaarbook/notifications"
	"github.com/rahulg963/udhaarbook/services"
	"github.com/rahulg963/udhaarbook/websocket"
)

type CommissionHandler struct {
	commissions *services.CommissionService
	identity    *services.IdentityService
}

func NewCommissionHandler(commissions *services.CommissionService, identity *services.IdentityService) *CommissionHandler {
	return &CommissionHandler{commissions: commissions, identity: identity}
}

type FeeWebhookRequest struct {
	PaymentID  string `json:"payment_id" validate:"required"`
	PayerPhone string `json:"payer_phone" validate:"required,len=10,numeric"`
}

// HandleFeeWebhook is the entry point for the upstream payment provider's
// "platform fee paid" callback. Replays of the same payment id are
// acknowledged without side effects.
func (h *CommissionHandler) HandleFeeWebhook(c *fiber.Ctx) error {
	var req FeeWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rows, err := h.commissions.OnFeePaid(req.PaymentID, req.PayerPhone)
	if err != nil {
		return serviceError(c, err)
	}

	for _, row := range rows {
		websocket.Notify(row.RecipientPhone, websocket.Event{
			Type: websocket.EventCommissionAccrued,
			Data: row,
		})
	}

	return c.JSON(fiber.Map{"message": "Fee event processed", "commissions": rows})
}

func (h *CommissionHandler) ListPending(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	rows, err := h.commissions.ListPending(phone)
	if err != nil {
		return serviceError(c, err)
	}

	var total int64
	for _, row := range rows {
		total += row.Amount
	}

	return c.JSON(fiber.Map{"commissions": rows, "total_pending": total})
}

func (h *CommissionHandler) RequestPayout(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	payout, err := h.commissions.RequestPayout(phone)
	if err != nil {
		return serviceError(c, err)
	}

	websocket.Notify(phone, websocket.Event{
		Type: websocket.EventPayoutProcessed,
		Data: payout,
	})

	if user, err := h.identity.GetByPhone(phone); err == nil && user != nil && user.Email != nil {
		go notifications.SendEmail(user.FullName, *user.Email, "Your Commission Payout is Processed!",
			fmt.Sprintf("<h1>Payout Processed</h1><p>₹%.2f of referral commissions have been paid out to you.</p>", float64(payout.TotalAmount)/100))
	}

	return c.Status(fiber.StatusCreated).JSON(payout)
}

func (h *CommissionHandler) ListPayouts(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	payouts, err := h.commissions.ListPayouts(phone)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"payouts": payouts, "count": len(payouts)})
}
