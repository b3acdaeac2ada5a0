package main

import (
	"log"

	"github.com/dockly/dockly-api/internal/config"
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/routes"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitMail(cfg)
	services.InitGoogle(cfg)
	services.InitOutlook(cfg)
	services.InitFitbit(cfg)
	services.InitBilling(cfg)
	if cfg.FCMServiceAccount != "" {
		if err := services.InitPush(cfg.FCMServiceAccount); err != nil {
			log.Printf("Push notifications disabled: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "Dockly API",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.ClientURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": 1, "message": "ok", "payload": fiber.Map{}})
	})

	routes.Setup(app)

	log.Printf("Server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
