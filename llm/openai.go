package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/mitraarka27/Meteo-Chat/pkg/metrics"
)

// OpenAIGenerator implements core.TextGenerator against any
// OpenAI-compatible chat completion API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	metrics     *metrics.Metrics
}

// NewOpenAIGenerator creates a generator for the given endpoint and
// model. An empty baseURL uses the default OpenAI endpoint.
func NewOpenAIGenerator(baseURL, apiKey, model string, m *metrics.Metrics) *OpenAIGenerator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: 0.2,
		maxTokens:   256,
		metrics:     m,
	}
}

// Generate implements core.TextGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		g.observe("error")
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		g.observe("empty")
		return "", fmt.Errorf("openai returned no choices")
	}
	g.observe("ok")
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) observe(status string) {
	if g.metrics != nil {
		g.metrics.LLMRequestsTotal.WithLabelValues("openai", status).Inc()
	}
}
