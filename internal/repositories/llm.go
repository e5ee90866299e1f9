package repositories

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

// Completer produces free-form text from a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIRepository generates briefing narratives through the OpenAI
// chat completion API.
type OpenAIRepository struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	l           *observe.Logger
}

func NewOpenAIRepository(apiKey string, l *observe.Logger) *OpenAIRepository {
	return &OpenAIRepository{
		client:      openai.NewClient(apiKey),
		model:       openai.GPT4o,
		temperature: 0.7,
		maxTokens:   1000,
		l:           l,
	}
}

func (r *OpenAIRepository) Complete(ctx context.Context, prompt string) (string, error) {
	r.l.Info("requesting chat completion", map[string]any{
		"model":       r.model,
		"prompt_size": len(prompt),
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
