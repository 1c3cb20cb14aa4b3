package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/handlers"
	"github.com/rahulg963/udhaarbook/middleware"
)

func TransactionRoutes(app *fiber.App, h *handlers.TransactionHandler) {
	api := app.Group("/api/v1")

	txns := api.Group("/transactions", middleware.Protected())
	txns.Post("", h.Submit)
	txns.Get("", h.List)
	txns.Post("/:id/confirm", h.Confirm)
	txns.Post("/:id/deny", h.Deny)
}
