// Package generation defines the boundary between the content pipeline
// and the language model that writes scripts. The application core only
// sees the Generator interface; the Gemini-backed implementation lives
// under internal/platform/gemini.
package generation

import (
	"context"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// Generator produces a publishable script for a content draft.
type Generator interface {
	// GenerateScript writes a script for the given content record based
	// on its title, topic and keywords. The content record itself is
	// not modified.
	GenerateScript(ctx context.Context, content *domain.Content) (string, error)
}
