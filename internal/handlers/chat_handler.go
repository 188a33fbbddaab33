package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
	chatws "github.com/trabalhosites01-debug/FitBoostBack/internal/websocket"
	"github.com/trabalhosites01-debug/FitBoostBack/pkg/utils"
)

type conversationApplicationService interface {
	Transcript(email, assistantType string) (string, []models.ChatMessage, error)
	StartNewChat(email, assistantType string) (string, error)
	LoadSession(ctx context.Context, email, assistantType, sessionID string) ([]models.ChatMessage, error)
	DeleteSession(ctx context.Context, email, assistantType, sessionID string) error
	Send(ctx context.Context, profile *models.UserProfile, assistantType, text string) (*models.ChatMessage, error)
}

type sessionListing interface {
	ListSessions(ctx context.Context, email, assistantType string) ([]models.ChatSession, error)
}

type profileReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
}

type ChatHandler struct {
	conversations conversationApplicationService
	sessions      sessionListing
	profiles      profileReader
	hub           *chatws.Hub
	jwtSecret     string
}

func NewChatHandler(
	conversations conversationApplicationService,
	sessions sessionListing,
	profiles profileReader,
	hub *chatws.Hub,
	jwtSecret string,
) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		sessions:      sessions,
		profiles:      profiles,
		hub:           hub,
		jwtSecret:     jwtSecret,
	}
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type loadSessionRequest struct {
	ID string `json:"id"`
}

func actorEmail(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals("email").(string)
	return email, ok && email != ""
}

func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	email, ok := actorEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessions, err := h.sessions.ListSessions(c.Context(), email, c.Params("type"))
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *ChatHandler) CurrentTranscript(c *fiber.Ctx) error {
	email, ok := actorEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, messages, err := h.conversations.Transcript(email, c.Params("type"))
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": sessionID, "messages": messages})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	email, ok := actorEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.profiles.GetByEmail(c.Context(), email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	message, err := h.conversations.Send(c.Context(), profile, c.Params("type"), req.Text)
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

func (h *ChatHandler) StartNewChat(c *fiber.Ctx) error {
	email, ok := actorEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := h.conversations.StartNewChat(email, c.Params("type"))
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": sessionID})
}

func (h *ChatHandler) LoadSession(c *fiber.Ctx) error {
	email, ok := actorEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req loadSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	messages, err := h.conversations.LoadSession(c.Context(), email, c.Params("type"), req.ID)
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": req.ID, "messages": messages})
}

func (h *ChatHandler) DeleteSession(c *fiber.Ctx) error {
	email, ok := actorEmail(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.conversations.DeleteSession(c.Context(), email, c.Params("type"), c.Params("id")); err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Session deleted"})
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("email", claims.Email)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	email, _ := conn.Locals("email").(string)
	client := chatws.NewClient(h.hub, conn, email)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	case errors.Is(err, services.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A message is already being processed"})
	case errors.Is(err, services.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Conversation was replaced while processing"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Chat operation failed"})
	}
}
