package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/models"
)

const (
	chatModel   = "gemini-2.5-flash"
	visionModel = "gemini-2.5-flash-image"
)

// Fallback texts. Gateway failures degrade to these instead of surfacing.
const (
	chatFallbackText    = "Ocorreu um erro ao gerar sua resposta. Tente novamente."
	chatEmptyText       = "Comando processado."
	visionFallbackText  = "Erro na análise visual."
	visionEmptyText     = "Imagem analisada."
	markdownInstruction = " (Responda em Markdown. Para exercícios, OBRIGATÓRIO incluir link [Assistir Vídeo no YouTube](URL). Para dieta, use GRAMAS)."
)

// AIResponse is what callers of the gateway observe: always a populated
// text, optionally grounded with web citations.
type AIResponse struct {
	Text      string             `json:"text"`
	Grounding []models.WebSource `json:"groundingMetadata,omitempty"`
}

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// AIService wraps the outbound generative calls. Every failure is absorbed
// here: callers only ever see a response, never an error.
type AIService struct {
	gen generator
}

// NewAIService builds the gateway. With no API key the service still works,
// answering every call with its fallback text.
func NewAIService(ctx context.Context, apiKey string) (*AIService, error) {
	if apiKey == "" {
		log.Println("WARN: GEMINI_API_KEY not set, AI responses degrade to fallbacks")
		return &AIService{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return &AIService{gen: &genaiGenerator{client: client}}, nil
}

func newAIServiceWithGenerator(gen generator) *AIService {
	return &AIService{gen: gen}
}

// SendMessage forwards the full prior history plus the new message to the
// chat model, with a role-specific system instruction built from the profile
// snapshot and the web-search tool enabled.
func (s *AIService) SendMessage(ctx context.Context, message string, history []models.ChatMessage, profile *models.UserProfile, role string) *AIResponse {
	if s.gen == nil {
		return &AIResponse{Text: chatFallbackText}
	}

	contents := historyToContents(history)
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message + markdownInstruction}},
	})

	temperature := float32(0.4)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction(role, profile)}},
		},
		Temperature:     &temperature,
		MaxOutputTokens: 3000,
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := s.gen.GenerateContent(ctx, chatModel, contents, cfg)
	if err != nil {
		log.Printf("AI error: %v", err)
		return &AIResponse{Text: chatFallbackText}
	}

	text := responseText(resp)
	if text == "" {
		text = chatEmptyText
	}
	return &AIResponse{
		Text:      text,
		Grounding: groundingSources(resp),
	}
}

// AnalyzeImage forwards one (food) or two (body, front and back) inline JPEG
// payloads to the vision model with the structured-report mandate appended.
func (s *AIService) AnalyzeImage(ctx context.Context, images []string, prompt, scanType string) *AIResponse {
	if s.gen == nil {
		return &AIResponse{Text: visionFallbackText}
	}
	if (scanType == ScanModeBody && len(images) != 2) || (scanType == ScanModeFood && len(images) != 1) {
		log.Printf("Vision error: %s scan with %d image(s)", scanType, len(images))
		return &AIResponse{Text: visionFallbackText}
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	for _, encoded := range images {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Printf("Vision error: invalid image payload: %v", err)
			return &AIResponse{Text: visionFallbackText}
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: data},
		})
	}
	parts = append(parts, &genai.Part{
		Text: prompt + " Responda com um laudo técnico profissional e estruturado.",
	})

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	resp, err := s.gen.GenerateContent(ctx, visionModel, contents, nil)
	if err != nil {
		log.Printf("Vision error: %v", err)
		return &AIResponse{Text: visionFallbackText}
	}

	text := responseText(resp)
	if text == "" {
		text = visionEmptyText
	}
	return &AIResponse{Text: text}
}

func historyToContents(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		role := genai.RoleModel
		if msg.Role == models.RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

func groundingSources(resp *genai.GenerateContentResponse) []models.WebSource {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	metadata := resp.Candidates[0].GroundingMetadata
	if metadata == nil {
		return nil
	}

	var sources []models.WebSource
	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, models.WebSource{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return sources
}

func systemInstruction(role string, profile *models.UserProfile) string {
	baseInfo := fmt.Sprintf(`PERFIL DO CLIENTE:
- Idade: %s anos
- Peso: %skg
- Objetivo: %s`,
		intOrDash(profile.Age), floatOrDash(profile.WeightKG), stringOrDash(profile.Goal))

	commonRules := `DIRETRIZES GERAIS:
1. **OBJETIVIDADE**: Use parágrafos curtos.
2. **VISUAL**: Use **Negrito** para destaques. Tabelas Markdown limpas.
3. **LINKS DO YOUTUBE (CRÍTICO - PRIORIDADE MÁXIMA)**:
   - O usuário PRECISA ver o vídeo da execução.
   - Tente encontrar um vídeo específico com a ferramenta de busca (googleSearch).
   - **REGRA DE SEGURANÇA (FALLBACK)**: Se a busca falhar ou não retornar um vídeo exato, VOCÊ DEVE USAR O LINK DE PESQUISA DO YOUTUBE fornecido no prompt ou gerar um similar.
     Exemplo de Fallback: "https://www.youtube.com/results?search_query=tecnica+correta+NOME_DO_EXERCICIO"
   - O Link DEVE aparecer no texto EXATAMENTE assim: [Assistir Vídeo no YouTube](URL).
4. **TOM**: Profissional de elite.`

	switch role {
	case models.AssistantTrainer:
		return baseInfo + "\nATUE COMO: Personal Trainer Especialista.\n" + commonRules + `

REGRAS ESPECÍFICAS:
1. **CRONOGRAMAS**: Tabela limpa (| Exercício | Séries | Repetições |). Sem cadência/tempo. Abaixo, explique a execução em parágrafos resumidos (3 linhas máx).
2. **CORREÇÃO DE TÉCNICA**:
   - **OBRIGATÓRIO**: A resposta DEVE começar com o link do vídeo.
   - Formato: [Assistir Vídeo no YouTube](URL).
   - Se não tiver certeza da URL do vídeo específico, use a URL de busca geral. NUNCA deixe sem link.`
	case models.AssistantNutritionist:
		return baseInfo + "\nATUE COMO: Nutricionista Esportivo Clínico.\n" + commonRules + `

REGRAS ESPECÍFICAS:
1. **PLANO ALIMENTAR**: Foco na COMIDA.
   - Tabela OBRIGATÓRIA: | Refeição | Alimentos | Quantidade (g) |.
   - IMPORTANTE: Você DEVE especificar o peso em GRAMAS para cada item (ex: Arroz Branco 150g). Se for unidade, estime o peso em gramas (ex: 1 Ovo Médio (50g)).
2. **SUPLEMENTAÇÃO + LAUDO**: Quando pedido suplementação, liste TODOS os suplementos necessários. No final da resposta, inclua um breve LAUDO NUTRICIONAL (Resumo do estado atual e estratégia).`
	}
	return baseInfo
}

func intOrDash(value *int) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}

func floatOrDash(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *value)
}

func stringOrDash(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}
