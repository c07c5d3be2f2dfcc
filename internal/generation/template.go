package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// TemplateGenerator writes scripts from fixed phrase templates. It is
// the fallback when no LLM is configured and keeps the content
// generation flow fully operational offline.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the template-based generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// GenerateScript implements Generator. The output is deterministic for
// a given content record.
func (g *TemplateGenerator) GenerateScript(_ context.Context, content *domain.Content) (string, error) {
	if strings.TrimSpace(content.Topic) == "" {
		return "", ErrEmptyContent
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", content.Title)
	fmt.Fprintf(&b, "Сегодня разберём тему «%s» и почему о ней все говорят.\n", content.Topic)
	if content.Description != "" {
		fmt.Fprintf(&b, "%s\n", content.Description)
	}
	b.WriteString("Три главных момента, которые нужно знать:\n")
	fmt.Fprintf(&b, "1. Что такое %s и как это работает.\n", content.Topic)
	fmt.Fprintf(&b, "2. Как начать использовать %s уже сегодня.\n", content.Topic)
	b.WriteString("3. Каких ошибок стоит избегать новичкам.\n")
	if len(content.Keywords) > 0 {
		fmt.Fprintf(&b, "\nКлючевые слова: %s\n", strings.Join(content.Keywords, ", "))
	}
	b.WriteString("Подписывайтесь, чтобы не пропустить продолжение!")

	return b.String(), nil
}

var _ Generator = (*TemplateGenerator)(nil)
