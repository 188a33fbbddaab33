package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

// Greeting seeded into every fresh transcript, per assistant type.
const (
	trainerGreeting      = "**Sessão Iniciada.**\n\nSou seu treinador. Para treinos, tabelas simples. Para técnica, envio o link do vídeo."
	nutritionistGreeting = "**Nutricionista Online.**\n\nPosso gerar seu plano alimentar (agora com pesagem em gramas), criar um laudo técnico ou encontrar lojas."
)

const previewLimit = 60

type chatGateway interface {
	SendMessage(ctx context.Context, message string, history []models.ChatMessage, profile *models.UserProfile, role string) *AIResponse
}

type sessionPersister interface {
	ListSessions(ctx context.Context, email, assistantType string) ([]models.ChatSession, error)
	SaveSession(ctx context.Context, session models.ChatSession) error
	DeleteSession(ctx context.Context, email, assistantType, sessionID string) error
}

type eventPublisher interface {
	Publish(email, assistantType string, message models.ChatMessage)
}

// conversation is the in-memory state of one (user, assistant-type) widget.
// The token identifies the current transcript generation: replies from sends
// started against an older transcript are discarded.
type conversation struct {
	sessionID string
	token     string
	messages  []models.ChatMessage
	busy      bool
}

// ConversationService orchestrates the send-message flow: append the user
// message, invoke the gateway, append exactly one assistant message, hand the
// transcript to the session store.
type ConversationService struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	gateway       chatGateway
	sessions      sessionPersister
	hub           eventPublisher
}

func NewConversationService(gateway chatGateway, sessions sessionPersister, hub eventPublisher) *ConversationService {
	return &ConversationService{
		conversations: make(map[string]*conversation),
		gateway:       gateway,
		sessions:      sessions,
		hub:           hub,
	}
}

func conversationKey(email, assistantType string) string {
	return strings.ToLower(email) + "|" + assistantType
}

func greeting(assistantType string) models.ChatMessage {
	text := trainerGreeting
	if assistantType == models.AssistantNutritionist {
		text = nutritionistGreeting
	}
	return models.ChatMessage{
		ID:        "1",
		Role:      models.RoleAssistant,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

var (
	sessionIDMu   sync.Mutex
	lastSessionID int64
)

// newSessionID returns a time-derived id, bumped past the previous one so two
// resets within the same millisecond never reissue an id.
func newSessionID() string {
	sessionIDMu.Lock()
	defer sessionIDMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastSessionID {
		id = lastSessionID + 1
	}
	lastSessionID = id
	return strconv.FormatInt(id, 10)
}

func (s *ConversationService) ensure(email, assistantType string) *conversation {
	key := conversationKey(email, assistantType)
	conv, ok := s.conversations[key]
	if !ok {
		conv = &conversation{
			sessionID: newSessionID(),
			token:     uuid.NewString(),
			messages:  []models.ChatMessage{greeting(assistantType)},
		}
		s.conversations[key] = conv
	}
	return conv
}

// Transcript returns the active session id and a copy of the transcript,
// seeding a fresh one on first access.
func (s *ConversationService) Transcript(email, assistantType string) (string, []models.ChatMessage, error) {
	if !models.ValidAssistantType(assistantType) {
		return "", nil, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.ensure(email, assistantType)
	return conv.sessionID, copyMessages(conv.messages), nil
}

// StartNewChat issues a fresh time-derived session id and resets the
// transcript to the single greeting. Persisted storage is untouched.
func (s *ConversationService) StartNewChat(email, assistantType string) (string, error) {
	if !models.ValidAssistantType(assistantType) {
		return "", ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.ensure(email, assistantType)
	s.resetLocked(conv, assistantType)
	return conv.sessionID, nil
}

func (s *ConversationService) resetLocked(conv *conversation, assistantType string) {
	conv.sessionID = newSessionID()
	conv.token = uuid.NewString()
	conv.messages = []models.ChatMessage{greeting(assistantType)}
}

// LoadSession replaces the active transcript with a stored session's
// content. No merge.
func (s *ConversationService) LoadSession(ctx context.Context, email, assistantType, sessionID string) ([]models.ChatMessage, error) {
	if !models.ValidAssistantType(assistantType) || sessionID == "" {
		return nil, ErrInvalidInput
	}

	stored, err := s.sessions.ListSessions(ctx, email, assistantType)
	if err != nil {
		return nil, err
	}
	var target *models.ChatSession
	for i := range stored {
		if stored[i].ID == sessionID {
			target = &stored[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.ensure(email, assistantType)
	conv.sessionID = target.ID
	conv.token = uuid.NewString()
	conv.messages = copyMessages(target.Messages)
	return copyMessages(conv.messages), nil
}

// DeleteSession removes a stored session. Deleting the active one resets the
// transcript to a fresh greeting under a new id.
func (s *ConversationService) DeleteSession(ctx context.Context, email, assistantType, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, email, assistantType, sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.ensure(email, assistantType)
	if conv.sessionID == sessionID {
		s.resetLocked(conv, assistantType)
	}
	return nil
}

// DropUser discards the in-memory conversation state for a removed profile.
// Tokens are rotated first so replies still in flight come back superseded
// instead of being persisted for the deleted account.
func (s *ConversationService) DropUser(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, assistantType := range []string{models.AssistantTrainer, models.AssistantNutritionist} {
		key := conversationKey(email, assistantType)
		if conv, ok := s.conversations[key]; ok {
			conv.token = uuid.NewString()
		}
		delete(s.conversations, key)
	}
}

// Send runs one conversation turn. Only one send per conversation may be in
// flight; concurrent submissions are rejected with ErrBusy. Success or
// failure, exactly one assistant message is appended, then the transcript is
// handed to the session store.
func (s *ConversationService) Send(ctx context.Context, profile *models.UserProfile, assistantType, text string) (*models.ChatMessage, error) {
	if !models.ValidAssistantType(assistantType) {
		return nil, ErrInvalidInput
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	conv := s.ensure(profile.Email, assistantType)
	if conv.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	conv.busy = true
	token := conv.token
	history := copyMessages(conv.messages)
	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Text:      trimmed,
		Timestamp: time.Now().UnixMilli(),
	}
	conv.messages = append(conv.messages, userMsg)
	s.mu.Unlock()

	// The gateway absorbs failures, so the reply is always populated.
	reply := s.gateway.SendMessage(ctx, trimmed, history, profile, assistantType)

	s.mu.Lock()
	defer s.mu.Unlock()
	conv.busy = false

	if conv.token != token {
		// Transcript was replaced while the call was in flight. Stale reply,
		// drop it.
		return nil, ErrSuperseded
	}

	assistantMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Text:      reply.Text,
		Grounding: reply.Grounding,
		Timestamp: time.Now().UnixMilli(),
	}
	conv.messages = append(conv.messages, assistantMsg)

	session := models.ChatSession{
		ID:          conv.sessionID,
		UserEmail:   profile.Email,
		Type:        assistantType,
		Timestamp:   time.Now().UnixMilli(),
		LastMessage: preview(assistantMsg.Text),
		Messages:    copyMessages(conv.messages),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		log.Printf("WARN: failed to persist session %s: %v", session.ID, err)
	}

	if s.hub != nil {
		s.hub.Publish(profile.Email, assistantType, assistantMsg)
	}
	return &assistantMsg, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes) + "..."
}

func copyMessages(messages []models.ChatMessage) []models.ChatMessage {
	copied := make([]models.ChatMessage, len(messages))
	copy(copied, messages)
	return copied
}
