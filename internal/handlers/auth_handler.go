package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
	"github.com/trabalhosites01-debug/FitBoostBack/pkg/utils"
)

type authApplicationService interface {
	Login(ctx context.Context, email string) (*models.UserProfile, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.UserProfile, error)
}

type AuthHandler struct {
	service   authApplicationService
	jwtSecret string
}

func NewAuthHandler(service authApplicationService, jwtSecret string) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret}
}

type loginRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.service.Login(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to login"})
	}

	token, err := utils.GenerateToken(profile.Email, profile.IsAdmin, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  profile,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to logout"})
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.service.Current(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch session"})
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active session"})
	}
	return c.JSON(fiber.Map{"user": profile})
}
