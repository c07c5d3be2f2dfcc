// Package gemini implements generation.Generator on top of Google's
// Gemini API.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/pulsefeed/pulse-api/internal/config"
	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/generation"
)

// scriptPromptTemplate asks for a short vertical-video script. The
// response is used verbatim as the content script, so the prompt
// forbids meta commentary.
const scriptPromptTemplate = `Напиши сценарий короткого вертикального видео на русском языке.

Тема: {{.Topic}}
Заголовок: {{.Title}}
{{- if .Description}}
Контекст: {{.Description}}
{{- end}}
{{- if .Keywords}}
Ключевые слова: {{.Keywords}}
{{- end}}

Требования: длительность 30-60 секунд, живой разговорный тон, цепляющая
первая фраза, призыв к действию в конце. Ответь только текстом сценария,
без пояснений и заголовков разделов.`

type promptData struct {
	Topic       string
	Title       string
	Description string
	Keywords    string
}

// GeminiGenerator calls the Gemini API with exponential backoff and
// maps its failures onto the generation error taxonomy.
type GeminiGenerator struct {
	logger *slog.Logger
	cfg    config.LLMConfig
	prompt *template.Template
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator from the LLM configuration.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	prompt, err := template.New("script").Parse(scriptPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing prompt template: %v", generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		cfg:    cfg,
		prompt: prompt,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// GenerateScript implements generation.Generator.
func (g *GeminiGenerator) GenerateScript(ctx context.Context, content *domain.Content) (string, error) {
	prompt, err := g.buildPrompt(content)
	if err != nil {
		return "", err
	}

	script, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return "", err
	}

	g.logger.DebugContext(ctx, "script generated",
		slog.String("content_id", content.ID.String()),
		slog.Int("script_length", len(script)))
	return script, nil
}

func (g *GeminiGenerator) buildPrompt(content *domain.Content) (string, error) {
	if strings.TrimSpace(content.Topic) == "" {
		return "", generation.ErrEmptyContent
	}

	var buf bytes.Buffer
	err := g.prompt.Execute(&buf, promptData{
		Topic:       content.Topic,
		Title:       content.Title,
		Description: content.Description,
		Keywords:    strings.Join(content.Keywords, ", "),
	})
	if err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the API up to MaxRetries+1 times with exponential
// backoff and jitter. Safety blocks and malformed responses are
// permanent and returned immediately.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.cfg.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		script, err := g.callOnce(ctx, prompt)
		if err == nil {
			return script, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}
		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded %d attempts: %v",
				generation.ErrTransientFailure, maxRetries+1, err)
		}

		// delay = base * 2^attempt * uniform(0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety finish reason", generation.ErrContentBlocked)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}
	return text, nil
}

var _ generation.Generator = (*GeminiGenerator)(nil)
