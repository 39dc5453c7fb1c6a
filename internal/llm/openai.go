package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIGenerator backs the gateway with the OpenAI chat completions API.
// The output shape is enforced after the fact; the schema is rendered into
// the system instruction.
type openAIGenerator struct {
	client    *openai.Client
	modelName string
	maxTokens int32
}

func newOpenAIGenerator(settings ProviderSettings) *openAIGenerator {
	client := openai.NewClient(option.WithAPIKey(settings.APIKey))

	modelName := settings.Model
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	return &openAIGenerator{
		client:    &client,
		modelName: modelName,
		maxTokens: settings.MaxTokens,
	}
}

func (g *openAIGenerator) name() string  { return "openai" }
func (g *openAIGenerator) model() string { return g.modelName }

func (g *openAIGenerator) generateText(ctx context.Context, req Request) (string, error) {
	system := req.System + schemaInstruction(req.Schema)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(float64(req.Temperature)),
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
