package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/handlers"
	"github.com/rahulg963/udhaarbook/middleware"
)

func ReferralRoutes(app *fiber.App, h *handlers.ReferralHandler) {
	api := app.Group("/api/v1")

	api.Get("/referrals/me", middleware.Protected(), h.GetMyReferrals)
}
