package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/config"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/database"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/repository"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/routes"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Pick the storage backend
	var store repository.KeyValueStore
	if cfg.RedisURL != "" {
		if err := database.ConnectDB(cfg.RedisURL, cfg.RedisPassword); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer database.CloseDB()
		store = repository.NewRedisStore(database.Client)
	} else {
		log.Println("REDIS_URL not set, using in-memory storage")
		store = repository.NewMemoryStore()
	}

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, store); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 4. Start Server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
