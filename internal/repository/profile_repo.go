package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

const (
	sessionKey        = "fitboost:session_user"
	profileKeyPrefix  = "fitboost:data:"
	profileKeyPattern = profileKeyPrefix + "*"
)

type ProfileRepository struct {
	store KeyValueStore
}

func NewProfileRepository(store KeyValueStore) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func profileKey(email string) string {
	return profileKeyPrefix + strings.ToLower(email)
}

// GetByEmail returns the persisted profile for an email, or nil when absent.
// A document that fails to decode or validate is treated as absent.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	raw, found, err := r.store.Get(ctx, profileKey(email))
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !found {
		return nil, nil
	}

	profile := decodeProfile(raw)
	if profile == nil {
		log.Printf("WARN: malformed profile document for %s, treating as absent", email)
		return nil, nil
	}
	return profile, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	if !profile.Valid() {
		return fmt.Errorf("save profile: missing id or email")
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := r.store.Set(ctx, profileKey(profile.Email), string(encoded)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, email string) error {
	return r.store.Delete(ctx, profileKey(email))
}

// List enumerates every persisted profile. Malformed documents are skipped
// with a warning rather than failing the whole listing.
func (r *ProfileRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	keys, err := r.store.Keys(ctx, profileKeyPattern)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]models.UserProfile, 0, len(keys))
	for _, key := range keys {
		raw, found, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		if !found {
			continue
		}
		profile := decodeProfile(raw)
		if profile == nil {
			log.Printf("WARN: skipping malformed profile document at %s", key)
			continue
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// GetSession returns the profile the session pointer refers to, or nil when
// logged out. A corrupted pointer is cleared and reported as no session.
func (r *ProfileRepository) GetSession(ctx context.Context) (*models.UserProfile, error) {
	raw, found, err := r.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}

	profile := decodeProfile(raw)
	if profile == nil {
		log.Printf("WARN: corrupted session pointer, clearing")
		_ = r.store.Delete(ctx, sessionKey)
		return nil, nil
	}
	return profile, nil
}

func (r *ProfileRepository) SetSession(ctx context.Context, profile *models.UserProfile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey, string(encoded)); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (r *ProfileRepository) ClearSession(ctx context.Context) error {
	return r.store.Delete(ctx, sessionKey)
}

func decodeProfile(raw string) *models.UserProfile {
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	if !profile.Valid() {
		return nil
	}
	return &profile
}
