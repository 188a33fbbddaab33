package services

import (
	"context"
	"log"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

type profileStore interface {
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Save(ctx context.Context, profile *models.UserProfile) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]models.UserProfile, error)
	GetSession(ctx context.Context) (*models.UserProfile, error)
	SetSession(ctx context.Context, profile *models.UserProfile) error
	ClearSession(ctx context.Context) error
}

type historyRemover interface {
	DeletePartition(ctx context.Context, email, assistantType string) error
}

// AuthService resolves email identities into profiles, owns the session
// pointer and the admin operations over the profile collection.
type AuthService struct {
	profiles   profileStore
	histories  historyRemover
	adminEmail string
	loginDelay time.Duration
}

func NewAuthService(profiles profileStore, histories historyRemover, adminEmail string, loginDelay time.Duration) *AuthService {
	return &AuthService{
		profiles:   profiles,
		histories:  histories,
		adminEmail: strings.ToLower(adminEmail),
		loginDelay: loginDelay,
	}
}

// Login resolves an email into a profile, auto-registering unknown addresses,
// and sets the resolved profile as the current session. The administrator
// address always comes back with the admin flag set, whatever was stored.
func (s *AuthService) Login(ctx context.Context, email string) (*models.UserProfile, error) {
	email, ok := normalizeEmail(email)
	if !ok {
		return nil, ErrInvalidInput
	}

	// Fixed delay to mimic a network-backed identity provider.
	if s.loginDelay > 0 {
		select {
		case <-time.After(s.loginDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		profile = &models.UserProfile{
			ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
			Email:     email,
			Name:      deriveName(email),
			Onboarded: false,
			IsAdmin:   email == s.adminEmail,
		}
		log.Printf("New user, auto-registering: %s", email)
	}

	if email == s.adminEmail {
		profile.IsAdmin = true
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.profiles.SetSession(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Logout clears the session pointer only. Persisted profile data survives.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.profiles.ClearSession(ctx)
}

// Current returns the session profile, or nil when logged out.
func (s *AuthService) Current(ctx context.Context) (*models.UserProfile, error) {
	return s.profiles.GetSession(ctx)
}

type UpdateProfileInput struct {
	Name        *string
	Age         *int
	HeightCM    *float64
	WeightKG    *float64
	Level       *string
	Goal        *string
	Onboarded   *bool
	WorkoutDays *[]string
}

// UpdateProfile merges the given fields into the session profile and writes
// the merged record to both the session pointer and the per-email store.
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.profiles.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoSession
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Age != nil {
		profile.Age = input.Age
	}
	if input.HeightCM != nil {
		profile.HeightCM = input.HeightCM
	}
	if input.WeightKG != nil {
		profile.WeightKG = input.WeightKG
	}
	if input.Level != nil {
		profile.Level = input.Level
	}
	if input.Goal != nil {
		profile.Goal = input.Goal
	}
	if input.Onboarded != nil {
		profile.Onboarded = *input.Onboarded
	}
	if input.WorkoutDays != nil {
		profile.WorkoutDays = *input.WorkoutDays
	}

	if err := s.profiles.SetSession(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetAllUsers enumerates every persisted profile.
func (s *AuthService) GetAllUsers(ctx context.Context) ([]models.UserProfile, error) {
	return s.profiles.List(ctx)
}

// DeleteUser removes a profile and both of its chat-history partitions.
// Deleting the administrator is refused. When the removed profile is the
// current session, the session pointer is cleared as well.
func (s *AuthService) DeleteUser(ctx context.Context, email string) error {
	email, ok := normalizeEmail(email)
	if !ok {
		return ErrInvalidInput
	}
	if email == s.adminEmail {
		log.Printf("WARN: attempted to delete admin account %s", email)
		return ErrForbidden
	}

	if err := s.profiles.Delete(ctx, email); err != nil {
		return err
	}
	if err := s.histories.DeletePartition(ctx, email, models.AssistantTrainer); err != nil {
		return err
	}
	if err := s.histories.DeletePartition(ctx, email, models.AssistantNutritionist); err != nil {
		return err
	}

	session, err := s.profiles.GetSession(ctx)
	if err != nil {
		return err
	}
	if session != nil && session.Email == email {
		return s.profiles.ClearSession(ctx)
	}
	return nil
}

func (s *AuthService) IsAdminEmail(email string) bool {
	normalized, ok := normalizeEmail(email)
	return ok && normalized == s.adminEmail
}

func normalizeEmail(email string) (string, bool) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", false
	}
	return strings.ToLower(parsed.Address), true
}

// deriveName turns the email's local part into a display name, capitalized.
func deriveName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	runes := []rune(local)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
