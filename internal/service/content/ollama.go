package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	applog "github.com/janisto/filif-api/internal/platform/logging"
	"github.com/janisto/filif-api/internal/platform/timeutil"
	"github.com/janisto/filif-api/internal/service/profile"
)

const (
	defaultModel   = "llama3.2"
	defaultTimeout = 30 * time.Second
)

// GenerateClient is the part of *api.Client the generator uses.
type GenerateClient interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error
}

// OllamaGenerator asks a local Ollama model for JSON content.
type OllamaGenerator struct {
	client  GenerateClient
	model   string
	timeout time.Duration
}

// Option configures an OllamaGenerator.
type Option func(*OllamaGenerator)

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(g *OllamaGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(g *OllamaGenerator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewOllamaGenerator creates a generator backed by client, usually from api.ClientFromEnvironment.
func NewOllamaGenerator(client GenerateClient, opts ...Option) *OllamaGenerator {
	g := &OllamaGenerator{client: client, model: defaultModel, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ Generator = (*OllamaGenerator)(nil)

func audience(t profile.Type) string {
	switch t {
	case profile.TypeKids:
		return "crianças"
	case profile.TypeTeens:
		return "adolescentes"
	case profile.TypeYouth:
		return "jovens"
	default:
		return "adultos"
	}
}

func (g *OllamaGenerator) Devotional(ctx context.Context, t profile.Type) (*Devotional, error) {
	challenge := "O desafio deve ser prático: um exercício de gratidão, uma leitura específica ou uma ação de bondade."
	if t == profile.TypeKids {
		challenge = "O desafio deve ser algo lúdico: desenhar uma cena bíblica ou fazer uma oração simples."
	}
	prompt := fmt.Sprintf(`Gere um devocional cristão para %s.
%s
Responda estritamente JSON: {"verseRef": "string", "verseText": "string", "reflection": "string", "challenge": "string"}.
Use Português Brasil.`, audience(t), challenge)

	var d Devotional
	if err := g.generateJSON(ctx, "devotional", prompt, &d); err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (g *OllamaGenerator) ArtTheme(ctx context.Context, t profile.Type, day timeutil.Date) (*ArtTheme, error) {
	prompt := fmt.Sprintf(`Crie um tema de desenho bíblico para %s para o dia %s.
Responda estritamente JSON: {"title": "string", "instruction": "string", "icon": "um emoji"}.
Use Português Brasil.`, audience(t), day)

	var a ArtTheme
	if err := g.generateJSON(ctx, "art_theme", prompt, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (g *OllamaGenerator) VerseChallenge(
	ctx context.Context, t profile.Type, day timeutil.Date,
) (*VerseChallenge, error) {
	prompt := fmt.Sprintf(`Escolha um versículo bíblico curto para %s para o dia %s e crie uma pergunta de verificação.
Responda estritamente JSON: {"ref": "string", "text": "string", "hint": "string", "verificationQuestion": "string", "options": ["string"], "correctIndex": 0}.
Use 3 opções e Português Brasil.`, audience(t), day)

	var v VerseChallenge
	if err := g.generateJSON(ctx, "verse_challenge", prompt, &v); err != nil {
		return nil, err
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (g *OllamaGenerator) Quiz(ctx context.Context, t profile.Type) ([]QuizQuestion, error) {
	prompt := fmt.Sprintf(`Crie 3 perguntas de quiz bíblico para %s.
Responda estritamente JSON: {"questions": [{"question": "string", "options": ["string"], "correctIndex": 0}]}.
Use Português Brasil.`, audience(t))

	var wrapped struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := g.generateJSON(ctx, "quiz", prompt, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", ErrInvalidContent)
	}
	for i := range wrapped.Questions {
		if err := wrapped.Questions[i].validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return wrapped.Questions, nil
}

func (g *OllamaGenerator) generateJSON(ctx context.Context, kind, prompt string, target any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
		Options: map[string]any{
			"temperature": 0.7,
			"top_p":       0.9,
		},
	}

	started := time.Now()
	var out strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	applog.LogInfo(ctx, "content generated",
		zap.String("kind", kind),
		zap.String("model", g.model),
		zap.Duration("duration", time.Since(started)),
	)

	if err := json.Unmarshal([]byte(out.String()), target); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrInvalidContent, kind, err)
	}
	return nil
}
