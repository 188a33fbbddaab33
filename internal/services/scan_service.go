package services

import (
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scan modes. Body scans need a front and a back image; food scans exactly
// one.
const (
	ScanModeBody = "body"
	ScanModeFood = "food"
)

// Slot names.
const (
	SlotFront = "front"
	SlotBack  = "back"
	SlotImage = "image"
)

// 8 MiB of decoded image data per slot.
const maxImageBytes = 8 << 20

// Analysis prompts per mode.
const (
	bodyScanPrompt = "AJA COMO UM TREINADOR DE FISICULTURISMO DE ELITE. Analise este físico com extremo rigor técnico. 1. Estime o BF% (Gordura Corporal). 2. Crie uma lista detalhada dos PONTOS FORTES e PONTOS FRACOS musculares. 3. Para cada ponto fraco, prescreva uma estratégia de correção (exercícios, séries, repetições). 4. Use TABELAS e FORMATO MARKDOWN profissional. Seja longo e detalhista."
	foodScanPrompt = "AJA COMO UM NUTRICIONISTA ESPORTIVO. Analise este prato. 1. Identifique todos os alimentos. 2. Crie uma TABELA NUTRICIONAL completa com estimativa de Gramas, Calorias, Proteínas, Carbos e Gorduras para cada item. 3. Calcule o TOTAL da refeição. 4. Dê um veredito técnico sobre a qualidade nutricional. Resposta longa e profissional."
)

type visionGateway interface {
	AnalyzeImage(ctx context.Context, images []string, prompt, scanType string) *AIResponse
}

// ScanState is the caller-visible snapshot of a scan session.
type ScanState struct {
	ID        string   `json:"id"`
	Mode      string   `json:"mode"`
	Slots     []string `json:"slots"`
	Filled    []string `json:"filled"`
	Ready     bool     `json:"ready"`
	CreatedAt int64    `json:"createdAt"`
}

type scanSession struct {
	id        string
	mode      string
	images    map[string]string
	createdAt int64
}

// ScanService owns image acquisition for the body/food scanners: a scan
// session collects encoded payloads into named slots and gates analysis on
// all required slots being filled. A failed acquisition clears only the
// affected slot; releasing the session drops every payload.
type ScanService struct {
	mu       sync.Mutex
	sessions map[string]*scanSession
	gateway  visionGateway
}

func NewScanService(gateway visionGateway) *ScanService {
	return &ScanService{
		sessions: make(map[string]*scanSession),
		gateway:  gateway,
	}
}

func slotsForMode(mode string) []string {
	if mode == ScanModeBody {
		return []string{SlotFront, SlotBack}
	}
	return []string{SlotImage}
}

func validSlot(mode, slot string) bool {
	for _, known := range slotsForMode(mode) {
		if known == slot {
			return true
		}
	}
	return false
}

// Create opens a new scan session for a mode.
func (s *ScanService) Create(mode string) (*ScanState, error) {
	if mode != ScanModeBody && mode != ScanModeFood {
		return nil, ErrInvalidInput
	}

	session := &scanSession{
		id:        uuid.NewString(),
		mode:      mode,
		images:    make(map[string]string),
		createdAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	return s.state(session), nil
}

// Acquire stores an encoded image payload into a slot. An invalid payload
// clears the slot it targeted and fails, leaving the other slots untouched.
func (s *ScanService) Acquire(id, slot, payload string) (*ScanState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !validSlot(session.mode, slot) {
		return nil, ErrInvalidInput
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 || len(decoded) > maxImageBytes {
		delete(session.images, slot)
		return nil, ErrInvalidInput
	}

	session.images[slot] = payload
	return s.state(session), nil
}

// AcquireFile reads an uploaded file into an encoded payload and stores it
// like Acquire does.
func (s *ScanService) AcquireFile(id, slot string, header *multipart.FileHeader) (*ScanState, error) {
	file, err := header.Open()
	if err != nil {
		s.Release(id, slot)
		return nil, ErrInvalidInput
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxImageBytes {
		s.Release(id, slot)
		return nil, ErrInvalidInput
	}

	return s.Acquire(id, slot, base64.StdEncoding.EncodeToString(data))
}

// Release clears one slot.
func (s *ScanService) Release(id, slot string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		delete(session.images, slot)
	}
}

// Get returns the current state of a scan session.
func (s *ScanService) Get(id string) (*ScanState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.state(session), nil
}

// Close releases the session and every payload it held.
func (s *ScanService) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Analyze runs the vision call once every required slot is filled. The
// payloads stay in place afterwards so a failed analysis can be retried.
func (s *ScanService) Analyze(ctx context.Context, id string) (*AIResponse, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	slots := slotsForMode(session.mode)
	images := make([]string, 0, len(slots))
	for _, slot := range slots {
		payload, filled := session.images[slot]
		if !filled {
			s.mu.Unlock()
			return nil, ErrInvalidInput
		}
		images = append(images, payload)
	}
	mode := session.mode
	s.mu.Unlock()

	prompt := foodScanPrompt
	if mode == ScanModeBody {
		prompt = bodyScanPrompt
	}
	return s.gateway.AnalyzeImage(ctx, images, prompt, mode), nil
}

func (s *ScanService) state(session *scanSession) *ScanState {
	slots := slotsForMode(session.mode)
	filled := make([]string, 0, len(slots))
	for _, slot := range slots {
		if _, ok := session.images[slot]; ok {
			filled = append(filled, slot)
		}
	}
	return &ScanState{
		ID:        session.id,
		Mode:      session.mode,
		Slots:     slots,
		Filled:    filled,
		Ready:     len(filled) == len(slots),
		CreatedAt: session.createdAt,
	}
}
