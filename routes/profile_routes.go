package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/handlers"
	"github.com/rahulg963/udhaarbook/middleware"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile/me", middleware.Protected())
	profile.Get("", h.GetProfile)
	profile.Put("", h.UpdateProfile)
}
