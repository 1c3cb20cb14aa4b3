package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/database"
	"github.com/rahulg963/udhaarbook/handlers"
	"github.com/rahulg963/udhaarbook/jobs"
	"github.com/rahulg963/udhaarbook/notifications"
	"github.com/rahulg963/udhaarbook/routes"
	"github.com/rahulg963/udhaarbook/services"
	"github.com/rahulg963/udhaarbook/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.LoadAppConfig()

	database.ConnectDB()
	database.Migrate()
	database.SeedRoot(cfg)
	notifications.InitEmailService()

	// Build order matters: referral reads identity, transactions read
	// identity, the ledger reads transactions, commissions read both
	// identity and the referral graph.
	identity := services.NewIdentityService(database.DB, cfg)
	referral := services.NewReferralService(database.DB)
	transactions := services.NewTransactionService(database.DB, identity, cfg)
	ledger := services.NewLedgerService(database.DB)
	commissions := services.NewCommissionService(database.DB, identity, referral, cfg)

	c := cron.New()
	c.AddFunc("0 9 * * *", func() { jobs.SweepCommissions(cfg) })
	go c.Start()
	log.Println("✅ Cron job for commission sweep scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "UdhaarBook",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Kolkata",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AuthRoutes(app, handlers.NewAuthHandler(identity))
	routes.ProfileRoutes(app, handlers.NewProfileHandler(identity))
	routes.ReferralRoutes(app, handlers.NewReferralHandler(identity, referral, cfg))
	routes.TransactionRoutes(app, handlers.NewTransactionHandler(transactions))
	routes.LedgerRoutes(app, handlers.NewLedgerHandler(ledger))
	routes.PaymentRoutes(app, handlers.NewCommissionHandler(commissions, identity))
	routes.NotificationRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
