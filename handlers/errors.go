package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/services"
)

// serviceError translates the core error kinds into HTTP responses. Anything
// unrecognised is a storage failure and comes back as a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var below *services.BelowThresholdError
	if errors.As(err, &below) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":           "Pending balance below payout threshold",
			"pending_balance": below.Balance,
			"threshold":       below.Threshold,
		})
	}

	switch {
	case errors.Is(err, services.ErrInvalid),
		errors.Is(err, services.ErrSelfTransfer),
		errors.Is(err, services.ErrEmptyPayout):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownReferrer):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUnknownUser):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadySettled),
		errors.Is(err, services.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrCodeExhausted):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Could not allocate a referral code, please retry"})
	}

	log.Printf("🔥 Unexpected service error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
