package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator backs the gateway with the Gemini API. It is the only
// provider with native structured-output support, so the request schema is
// passed through as a response schema.
type geminiGenerator struct {
	gClient   *genai.Client
	modelName string
	maxTokens int32
}

func newGeminiGenerator(ctx context.Context, settings ProviderSettings) (*geminiGenerator, error) {
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := settings.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &geminiGenerator{
		gClient:   gClient,
		modelName: modelName,
		maxTokens: settings.MaxTokens,
	}, nil
}

func (g *geminiGenerator) name() string  { return "gemini" }
func (g *geminiGenerator) model() string { return g.modelName }

func (g *geminiGenerator) generateText(ctx context.Context, req Request) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: req.User}},
		Role:  "user",
	}}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = maxTokens
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.Schema
	}

	resp, err := g.gClient.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}
