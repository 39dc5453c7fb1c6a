package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-5"
	defaultAnthropicMaxTokens = 4096
)

// anthropicGenerator backs the gateway with the Anthropic messages API.
// Like the OpenAI provider, the schema is rendered into the system
// instruction and enforced on decode.
type anthropicGenerator struct {
	client    *anthropic.Client
	modelName string
	maxTokens int32
}

func newAnthropicGenerator(settings ProviderSettings) *anthropicGenerator {
	client := anthropic.NewClient(option.WithAPIKey(settings.APIKey))

	modelName := settings.Model
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	maxTokens := settings.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &anthropicGenerator{
		client:    &client,
		modelName: modelName,
		maxTokens: maxTokens,
	}
}

func (g *anthropicGenerator) name() string  { return "anthropic" }
func (g *anthropicGenerator) model() string { return g.modelName }

func (g *anthropicGenerator) generateText(ctx context.Context, req Request) (string, error) {
	system := req.System + schemaInstruction(req.Schema)

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.modelName),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(float64(req.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return resp.Content[0].Text, nil
}
