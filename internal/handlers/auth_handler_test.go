package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

type stubAuthService struct {
	loginResult   *models.UserProfile
	loginErr      error
	currentResult *models.UserProfile
	currentErr    error
	logoutErr     error
	lastEmail     string
	logoutCalls   int
}

func (s *stubAuthService) Login(_ context.Context, email string) (*models.UserProfile, error) {
	s.lastEmail = email
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Logout(_ context.Context) error {
	s.logoutCalls++
	return s.logoutErr
}

func (s *stubAuthService) Current(_ context.Context) (*models.UserProfile, error) {
	return s.currentResult, s.currentErr
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	service := &stubAuthService{
		loginResult: &models.UserProfile{ID: "1", Email: "ana@test.com", Name: "Ana"},
	}
	handler := NewAuthHandler(service, "secret")

	app := fiber.New()
	app.Post("/api/auth/login", handler.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@test.com"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastEmail != "ana@test.com" {
		t.Fatalf("unexpected forwarded email: %q", service.lastEmail)
	}

	var body struct {
		Token string             `json:"token"`
		User  models.UserProfile `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected a token")
	}
	if body.User.Email != "ana@test.com" {
		t.Fatalf("unexpected user: %+v", body.User)
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	service := &stubAuthService{loginErr: services.ErrInvalidInput}
	handler := NewAuthHandler(service, "secret")

	app := fiber.New()
	app.Post("/api/auth/login", handler.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	service := &stubAuthService{}
	handler := NewAuthHandler(service, "secret")

	app := fiber.New()
	app.Post("/api/auth/logout", handler.Logout)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.logoutCalls != 1 {
		t.Fatalf("expected 1 logout call, got %d", service.logoutCalls)
	}
}

func TestMeWithoutSession(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, "secret")

	app := fiber.New()
	app.Get("/api/auth/me", handler.Me)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	onboarded := &models.UserProfile{ID: "1", Email: "ana@test.com", Onboarded: true}
	handler := NewAuthHandler(&stubAuthService{currentResult: onboarded}, "secret")

	app := fiber.New()
	app.Get("/api/auth/me", handler.Me)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		User models.UserProfile `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.User.Onboarded {
		t.Fatalf("unexpected user: %+v", body.User)
	}
}
