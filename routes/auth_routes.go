package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/handlers"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	api := app.Group("/api/v1")

	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)
}
