package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

type profileApplicationService interface {
	Current(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, input services.UpdateProfileInput) (*models.UserProfile, error)
}

type ProfileHandler struct {
	service profileApplicationService
}

func NewProfileHandler(service profileApplicationService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type onboardingRequest struct {
	Age      int     `json:"age"`
	HeightCM float64 `json:"height"`
	WeightKG float64 `json:"weight"`
	Level    string  `json:"level"`
	Goal     string  `json:"goal"`
}

type updateProfileRequest struct {
	Name        *string   `json:"name"`
	Age         *int      `json:"age"`
	HeightCM    *float64  `json:"height"`
	WeightKG    *float64  `json:"weight"`
	Level       *string   `json:"level"`
	Goal        *string   `json:"goal"`
	WorkoutDays *[]string `json:"workout_days"`
}

// Onboarding stores the coaching parameters and flips the onboarded flag.
// The same endpoint serves the profile-edit mode of the onboarding flow.
func (h *ProfileHandler) Onboarding(c *fiber.Ctx) error {
	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateOnboardingRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	onboarded := true
	profile, err := h.service.UpdateProfile(c.Context(), services.UpdateProfileInput{
		Age:       &req.Age,
		HeightCM:  &req.HeightCM,
		WeightKG:  &req.WeightKG,
		Level:     &req.Level,
		Goal:      &req.Goal,
		Onboarded: &onboarded,
	})
	if err != nil {
		return mapProfileError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := validateProfileUpdateRequest(req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	profile, err := h.service.UpdateProfile(c.Context(), services.UpdateProfileInput{
		Name:        req.Name,
		Age:         req.Age,
		HeightCM:    req.HeightCM,
		WeightKG:    req.WeightKG,
		Level:       req.Level,
		Goal:        req.Goal,
		WorkoutDays: req.WorkoutDays,
	})
	if err != nil {
		return mapProfileError(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

// Calendar returns the weekly training schedule derived from the profile's
// workout days.
func (h *ProfileHandler) Calendar(c *fiber.Ctx) error {
	profile, err := h.service.Current(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch session"})
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active session"})
	}

	return c.JSON(fiber.Map{
		"workout_days": profile.WorkoutDays,
		"schedule":     services.WeekSchedule(profile, time.Now()),
	})
}

func mapProfileError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNoSession) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No active session"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
}
