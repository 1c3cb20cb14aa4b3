package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/handlers"
	"github.com/rahulg963/udhaarbook/middleware"
)

func LedgerRoutes(app *fiber.App, h *handlers.LedgerHandler) {
	api := app.Group("/api/v1")

	ledger := api.Group("/ledger", middleware.Protected())
	ledger.Get("/totals", h.GetTotals)
	ledger.Get("/recent", h.GetRecent)
	ledger.Get("/pair/:phone", h.GetPairBalance)
}
