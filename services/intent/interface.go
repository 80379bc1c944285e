// Package intent turns a free-text WhatsApp message into a partial
// reservation intent using an LLM. Fields the model cannot determine stay
// empty; ambiguous input never produces an error, just an emptier intent.
package intent

import (
	"context"
	"fmt"

	"github.com/martinianod/chedoparti/config"
	"github.com/martinianod/chedoparti/models"
)

// Extractor maps one message to a ReservationIntent.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.ReservationIntent, error)
}

// NewFromConfig builds the extractor selected by INTENT_PROVIDER.
func NewFromConfig(cfg config.Config) (Extractor, error) {
	switch cfg.IntentProvider {
	case "", "openai":
		return NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "gemini":
		return NewGeminiExtractor(cfg.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown intent provider %q", cfg.IntentProvider)
	}
}
