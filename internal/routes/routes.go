package routes

import (
	"context"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/config"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/handlers"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/middleware"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/repository"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
	chatws "github.com/trabalhosites01-debug/FitBoostBack/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, store repository.KeyValueStore) error {
	profileRepo := repository.NewProfileRepository(store)
	historyRepo := repository.NewHistoryRepository(store)

	aiService, err := services.NewAIService(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(profileRepo, historyRepo, cfg.AdminEmail, cfg.LoginDelay)
	sessionService := services.NewSessionService(historyRepo)
	chatHub := chatws.NewHub()
	go chatHub.Run()
	conversationService := services.NewConversationService(aiService, sessionService, chatHub)
	scanService := services.NewScanService(aiService)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(authService)
	chatHandler := handlers.NewChatHandler(conversationService, sessionService, profileRepo, chatHub, cfg.JWTSecret)
	scanHandler := handlers.NewScanHandler(scanService)
	adminHandler := handlers.NewAdminHandler(authService, conversationService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", middleware.AuthRequired(cfg.JWTSecret), authHandler.Logout)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	profile := protected.Group("/profile")
	profile.Post("/onboarding", profileHandler.Onboarding)
	profile.Put("", profileHandler.UpdateProfile)

	protected.Get("/calendar", profileHandler.Calendar)

	chats := protected.Group("/chats/:type")
	chats.Get("", chatHandler.ListSessions)
	chats.Get("/current", chatHandler.CurrentTranscript)
	chats.Post("/messages", chatHandler.SendMessage)
	chats.Post("/new", chatHandler.StartNewChat)
	chats.Post("/load", chatHandler.LoadSession)
	chats.Delete("/:id", chatHandler.DeleteSession)

	scans := protected.Group("/scans")
	scans.Post("", scanHandler.CreateScan)
	scans.Get("/:id", scanHandler.GetScan)
	scans.Post("/:id/images", scanHandler.UploadImage)
	scans.Delete("/:id/images/:slot", scanHandler.DeleteImage)
	scans.Post("/:id/analyze", scanHandler.Analyze)
	scans.Delete("/:id", scanHandler.DeleteScan)

	admin := protected.Group("/admin", middleware.AdminRequired())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Delete("/users/:email", adminHandler.DeleteUser)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))

	return nil
}
