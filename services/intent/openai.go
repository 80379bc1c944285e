package intent

import (
	"context"
	"fmt"

	"github.com/martinianod/chedoparti/models"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIExtractor extracts intents through the Chat Completions API.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

func NewOpenAIExtractor(apiKey, model string) *OpenAIExtractor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIExtractor{client: &client, model: model}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, text string) (*models.ReservationIntent, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(text)),
		},
		Model:       e.model,
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return nil, fmt.Errorf("openai intent extraction: %w", err)
	}
	if len(completion.Choices) == 0 {
		return &models.ReservationIntent{}, nil
	}
	return parseIntent(completion.Choices[0].Message.Content), nil
}
