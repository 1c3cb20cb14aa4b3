package routes

import (
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/middleware"
	"github.com/rahulg963/udhaarbook/websocket"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/ws", middleware.Protected(), func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("phone", middleware.PhoneFromToken(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, fiberws.New(websocket.Serve))
}
