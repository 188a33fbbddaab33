package services

import (
	"context"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

type historyStore interface {
	List(ctx context.Context, email, assistantType string) ([]models.ChatSession, error)
	Save(ctx context.Context, session models.ChatSession) error
	Delete(ctx context.Context, email, assistantType, sessionID string) error
}

// SessionService applies the persistence rules on top of the raw history
// partitions: trivial transcripts are never stored and saving an existing id
// replaces it.
type SessionService struct {
	histories historyStore
}

func NewSessionService(histories historyStore) *SessionService {
	return &SessionService{histories: histories}
}

func (s *SessionService) ListSessions(ctx context.Context, email, assistantType string) ([]models.ChatSession, error) {
	if !models.ValidAssistantType(assistantType) {
		return nil, ErrInvalidInput
	}
	return s.histories.List(ctx, email, assistantType)
}

// SaveSession persists a transcript. A transcript holding only its greeting
// is skipped: abandoned conversations never reach the history.
func (s *SessionService) SaveSession(ctx context.Context, session models.ChatSession) error {
	if !models.ValidAssistantType(session.Type) {
		return ErrInvalidInput
	}
	if len(session.Messages) <= 1 {
		return nil
	}
	return s.histories.Save(ctx, session)
}

func (s *SessionService) DeleteSession(ctx context.Context, email, assistantType, sessionID string) error {
	if !models.ValidAssistantType(assistantType) || sessionID == "" {
		return ErrInvalidInput
	}
	return s.histories.Delete(ctx, email, assistantType, sessionID)
}
