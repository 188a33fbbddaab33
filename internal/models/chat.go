package models

// Assistant types. Each type owns its own history partition per user.
const (
	AssistantTrainer      = "trainer"
	AssistantNutritionist = "nutritionist"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "model"
)

// WebSource is one citation attached to a grounded assistant reply.
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

type ChatMessage struct {
	ID        string      `json:"id"`
	Role      string      `json:"role"`
	Text      string      `json:"text"`
	Grounding []WebSource `json:"groundingMetadata,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type ChatSession struct {
	ID          string        `json:"id"`
	UserEmail   string        `json:"userId"`
	Type        string        `json:"type"`
	Timestamp   int64         `json:"timestamp"`
	LastMessage string        `json:"lastMessage"`
	Messages    []ChatMessage `json:"messages"`
}

// Valid reports whether a decoded session document is usable. Sessions with
// no id or no messages are treated as corrupt by the storage layer.
func (s *ChatSession) Valid() bool {
	return s != nil && s.ID != "" && len(s.Messages) > 0
}

func ValidAssistantType(t string) bool {
	return t == AssistantTrainer || t == AssistantNutritionist
}
