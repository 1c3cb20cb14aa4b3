package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/handlers"
	"github.com/rahulg963/udhaarbook/middleware"
)

func PaymentRoutes(app *fiber.App, h *handlers.CommissionHandler) {
	api := app.Group("/api/v1")

	api.Post("/payments/fee-webhook", h.HandleFeeWebhook)

	commissions := api.Group("/commissions", middleware.Protected())
	commissions.Get("/pending", h.ListPending)
	commissions.Get("/payouts", h.ListPayouts)
	commissions.Post("/payouts", h.RequestPayout)
}
