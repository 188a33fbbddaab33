package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

const historyKeyPrefix = "fitboost:history:"

// HistoryRepository persists chat sessions partitioned by (email, assistant
// type). Each partition is one document holding the full session array, so
// every mutation is a read-modify-write of the whole list.
type HistoryRepository struct {
	store KeyValueStore
}

func NewHistoryRepository(store KeyValueStore) *HistoryRepository {
	return &HistoryRepository{store: store}
}

func historyKey(email, assistantType string) string {
	return historyKeyPrefix + strings.ToLower(email) + ":" + assistantType
}

// List returns the partition's sessions sorted by timestamp descending.
// A partition that fails to decode yields an empty list, logged.
func (r *HistoryRepository) List(ctx context.Context, email, assistantType string) ([]models.ChatSession, error) {
	sessions, err := r.load(ctx, email, assistantType)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions, nil
}

// Save replaces any session with the same id in the partition and prepends
// the new entry, then persists the full list.
func (r *HistoryRepository) Save(ctx context.Context, session models.ChatSession) error {
	if !session.Valid() {
		return fmt.Errorf("save session: missing id or messages")
	}

	sessions, err := r.load(ctx, session.UserEmail, session.Type)
	if err != nil {
		return err
	}

	updated := make([]models.ChatSession, 0, len(sessions)+1)
	updated = append(updated, session)
	for _, existing := range sessions {
		if existing.ID != session.ID {
			updated = append(updated, existing)
		}
	}

	return r.persist(ctx, session.UserEmail, session.Type, updated)
}

// Delete removes a session from the partition. Deleting an id that is not
// present is a no-op.
func (r *HistoryRepository) Delete(ctx context.Context, email, assistantType, sessionID string) error {
	sessions, err := r.load(ctx, email, assistantType)
	if err != nil {
		return err
	}

	remaining := sessions[:0]
	for _, existing := range sessions {
		if existing.ID != sessionID {
			remaining = append(remaining, existing)
		}
	}

	return r.persist(ctx, email, assistantType, remaining)
}

// DeletePartition drops a user's whole history for one assistant type. Used
// by the profile-removal cascade.
func (r *HistoryRepository) DeletePartition(ctx context.Context, email, assistantType string) error {
	return r.store.Delete(ctx, historyKey(email, assistantType))
}

func (r *HistoryRepository) load(ctx context.Context, email, assistantType string) ([]models.ChatSession, error) {
	raw, found, err := r.store.Get(ctx, historyKey(email, assistantType))
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !found {
		return []models.ChatSession{}, nil
	}

	var sessions []models.ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Printf("WARN: malformed history partition %s/%s: %v", email, assistantType, err)
		return []models.ChatSession{}, nil
	}
	return sessions, nil
}

func (r *HistoryRepository) persist(ctx context.Context, email, assistantType string, sessions []models.ChatSession) error {
	encoded, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.store.Set(ctx, historyKey(email, assistantType), string(encoded)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
