package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/middleware"
	"github.com/rahulg963/udhaarbook/services"
)

type LedgerHandler struct {
	ledger *services.LedgerService
}

func NewLedgerHandler(ledger *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) GetTotals(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	totals, err := h.ledger.UserTotals(phone)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(totals)
}

// GetPairBalance reports the caller's net position against one contact;
// positive means the contact owes the caller.
func (h *LedgerHandler) GetPairBalance(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)
	other := c.Params("phone")

	balance, err := h.ledger.PairBalance(phone, other)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"contact_phone": other, "balance": balance})
}

func (h *LedgerHandler) GetRecent(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid limit"})
		}
		limit = n
	}

	txns, err := h.ledger.Recent(phone, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"transactions": txns, "count": len(txns)})
}
