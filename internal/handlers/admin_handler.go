package handlers

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

type adminApplicationService interface {
	GetAllUsers(ctx context.Context) ([]models.UserProfile, error)
	DeleteUser(ctx context.Context, email string) error
}

type conversationDropper interface {
	DropUser(email string)
}

type AdminHandler struct {
	service       adminApplicationService
	conversations conversationDropper
}

func NewAdminHandler(service adminApplicationService, conversations conversationDropper) *AdminHandler {
	return &AdminHandler{service: service, conversations: conversations}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	email := c.Params("email")
	if unescaped, err := url.PathUnescape(email); err == nil {
		email = unescaped
	}

	if err := h.service.DeleteUser(c.Context(), email); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "The administrator account cannot be deleted"})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
		}
	}

	h.conversations.DropUser(email)
	return c.JSON(fiber.Map{"message": "User deleted"})
}
