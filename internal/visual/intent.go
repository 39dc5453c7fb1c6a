// Package visual derives image generation intents from finished content
// items. An intent is a specification for a downstream image call, not the
// image itself.
package visual

import (
	"context"
	"fmt"
	"strings"

	"repurpose/internal/core"
	"repurpose/internal/llm"
	"repurpose/internal/logger"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const intentTemperature = 0.6

// maxHeadlineWords caps the overlay headline so it stays legible at banner
// sizes.
const maxHeadlineWords = 8

const intentSystemInstruction = `You design image generation prompts for professional content banners.

Prompting rules:
- Front-load the most important visual terms; the opening words carry the most weight.
- Plain natural language, no keyword soup.
- Describe form, lighting, composition, and mood.
- Never name concrete brand colors; color identity is applied downstream.
- Avoid generic visual cliches: no light bulbs for ideas, no handshakes for
  partnership, no chess pieces for strategy, no climbing figures for growth.
- The negative prompt lists what to suppress: text artifacts, watermarks,
  cliched symbols, busy backgrounds.

Pick the style preset that best fits the content's register:
- minimalist: flat shapes, generous negative space
- editorial: magazine illustration, textured, human
- tech: clean geometry, circuit-like abstraction, depth
- photographic: realistic scene, shallow depth of field
- abstract: non-representational form and gradient`

func intentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"prompt": {
				Type:        genai.TypeString,
				Description: "Image generation prompt, important terms first",
			},
			"negative_prompt": {
				Type:        genai.TypeString,
				Description: "Elements to suppress",
			},
			"headline_text": {
				Type:        genai.TypeString,
				Description: "Short overlay headline, at most 8 words",
			},
			"style_preset": {
				Type:        genai.TypeString,
				Description: "One of: minimalist, editorial, tech, photographic, abstract",
			},
		},
		Required: []string{"prompt", "headline_text", "style_preset"},
	}
}

type intentResponse struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	HeadlineText   string `json:"headline_text"`
	StylePreset    string `json:"style_preset"`
}

func (r *intentResponse) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("intent has empty prompt")
	}
	if strings.TrimSpace(r.HeadlineText) == "" {
		return fmt.Errorf("intent has empty headline")
	}
	return nil
}

// IntentGenerator derives one image intent per content item.
type IntentGenerator struct {
	gateway llm.Gateway
}

// NewIntentGenerator creates a generator backed by the given gateway.
func NewIntentGenerator(gateway llm.Gateway) *IntentGenerator {
	return &IntentGenerator{gateway: gateway}
}

// DeriveIntent produces an image intent for a finished content item,
// identified by contentID. The content text is usually the item's hook or
// title plus a short excerpt.
func (g *IntentGenerator) DeriveIntent(ctx context.Context, contentID, contentText string) (core.ImageIntent, error) {
	if strings.TrimSpace(contentText) == "" {
		return core.ImageIntent{}, fmt.Errorf("no content text to derive an intent from")
	}

	var resp intentResponse
	err := g.gateway.GenerateObject(ctx, llm.Request{
		System:      intentSystemInstruction,
		User:        fmt.Sprintf("Content:\n---\n%s\n---", contentText),
		Temperature: intentTemperature,
		Schema:      intentSchema(),
	}, &resp)
	if err != nil {
		return core.ImageIntent{}, fmt.Errorf("failed to derive image intent for %s: %w", contentID, err)
	}

	return core.ImageIntent{
		ID:             uuid.New().String(),
		ContentID:      contentID,
		Prompt:         resp.Prompt,
		NegativePrompt: resp.NegativePrompt,
		HeadlineText:   clampHeadline(resp.HeadlineText),
		StylePreset:    resolvePreset(resp.StylePreset),
	}, nil
}

// clampHeadline truncates a headline to maxHeadlineWords.
func clampHeadline(headline string) string {
	words := strings.Fields(headline)
	if len(words) <= maxHeadlineWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxHeadlineWords], " ")
}

// resolvePreset maps the model's preset choice onto the fixed enumeration,
// falling back to minimalist on anything unrecognized.
func resolvePreset(name string) core.StylePreset {
	candidate := core.StylePreset(strings.ToLower(strings.TrimSpace(name)))
	for _, preset := range core.AllStylePresets {
		if candidate == preset {
			return preset
		}
	}
	logger.Get().Warn("Unrecognized style preset, falling back to minimalist", "preset", name)
	return core.StyleMinimalist
}
