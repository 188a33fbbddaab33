package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

type stubAdminService struct {
	users     []models.UserProfile
	usersErr  error
	deleteErr error
	lastEmail string
}

func (s *stubAdminService) GetAllUsers(_ context.Context) ([]models.UserProfile, error) {
	return s.users, s.usersErr
}

func (s *stubAdminService) DeleteUser(_ context.Context, email string) error {
	s.lastEmail = email
	return s.deleteErr
}

type stubDropper struct {
	dropped []string
}

func (s *stubDropper) DropUser(email string) {
	s.dropped = append(s.dropped, email)
}

func TestListUsers(t *testing.T) {
	service := &stubAdminService{
		users: []models.UserProfile{
			{ID: "1", Email: "admin@test.com", IsAdmin: true},
			{ID: "2", Email: "ana@test.com"},
		},
	}
	handler := NewAdminHandler(service, &stubDropper{})

	app := fiber.New()
	app.Get("/api/v1/admin/users", handler.ListUsers)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Users []models.UserProfile `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Users) != 2 || !body.Users[0].IsAdmin {
		t.Fatalf("unexpected users: %+v", body.Users)
	}
}

func TestDeleteUserUnescapesEmailAndDropsConversations(t *testing.T) {
	service := &stubAdminService{}
	dropper := &stubDropper{}
	handler := NewAdminHandler(service, dropper)

	app := fiber.New()
	app.Delete("/api/v1/admin/users/:email", handler.DeleteUser)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/ana%40test.com", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastEmail != "ana@test.com" {
		t.Fatalf("email not unescaped: %q", service.lastEmail)
	}
	if len(dropper.dropped) != 1 || dropper.dropped[0] != "ana@test.com" {
		t.Fatalf("conversations not dropped: %v", dropper.dropped)
	}
}

func TestDeleteUserRefusesAdmin(t *testing.T) {
	dropper := &stubDropper{}
	handler := NewAdminHandler(&stubAdminService{deleteErr: services.ErrForbidden}, dropper)

	app := fiber.New()
	app.Delete("/api/v1/admin/users/:email", handler.DeleteUser)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/admin%40test.com", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if len(dropper.dropped) != 0 {
		t.Fatal("conversations dropped despite refusal")
	}
}

func TestDeleteUserFailure(t *testing.T) {
	handler := NewAdminHandler(&stubAdminService{deleteErr: errors.New("store down")}, &stubDropper{})

	app := fiber.New()
	app.Delete("/api/v1/admin/users/:email", handler.DeleteUser)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/users/ana%40test.com", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
