// Package insights extracts candidate insights from transcript chunks and
// collapses near-duplicates.
package insights

import (
	"context"
	"fmt"
	"strings"

	"repurpose/internal/core"
	"repurpose/internal/llm"

	"google.golang.org/genai"
)

const extractTemperature = 0.5

const extractSystemInstruction = `You mine transcript excerpts for insights worth turning into professional content.

An insight qualifies only if it is:
- Non-obvious: not something the audience already assumes.
- Specific: tied to a concrete mechanism, number, or situation.
- Professionally relevant: a practitioner could act on it.
- Challengeable: a reasonable person could push back on it.

Generic observations, promotional content, and platitudes do not qualify.
Return an empty list rather than forcing a weak insight.`

func extractSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"insights": {
				Type:        genai.TypeArray,
				Description: "Zero or more qualifying insights from the excerpt",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {
							Type:        genai.TypeString,
							Description: "Subject area of the claim",
						},
						"claim": {
							Type:        genai.TypeString,
							Description: "The candidate claim, stated plainly",
						},
						"why_it_matters": {
							Type:        genai.TypeString,
							Description: "Why the audience should care",
						},
						"misconception": {
							Type:        genai.TypeString,
							Description: "Common belief the claim challenges, if any",
						},
						"professional_implication": {
							Type:        genai.TypeString,
							Description: "What practitioners should do differently",
						},
					},
					Required: []string{"topic", "claim", "why_it_matters", "professional_implication"},
				},
			},
		},
		Required: []string{"insights"},
	}
}

type extractResponse struct {
	Insights []core.ExtractedInsight `json:"insights"`
}

func (r *extractResponse) Validate() error {
	// An empty list is a valid outcome: not every chunk yields an insight.
	for i, insight := range r.Insights {
		if strings.TrimSpace(insight.Claim) == "" {
			return fmt.Errorf("insight %d has empty claim", i)
		}
		if strings.TrimSpace(insight.Topic) == "" {
			return fmt.Errorf("insight %d has empty topic", i)
		}
	}
	return nil
}

// Extractor proposes candidate insights from transcript chunks, one gateway
// call per chunk.
type Extractor struct {
	gateway llm.Gateway
}

// NewExtractor creates an extractor backed by the given gateway.
func NewExtractor(gateway llm.Gateway) *Extractor {
	return &Extractor{gateway: gateway}
}

// Extract reads one chunk and proposes zero or more candidate insights
// meeting the quality bar.
func (e *Extractor) Extract(ctx context.Context, chunk core.TranscriptChunk) ([]core.ExtractedInsight, error) {
	var resp extractResponse
	err := e.gateway.GenerateObject(ctx, llm.Request{
		System: extractSystemInstruction,
		User: fmt.Sprintf("Topic hint: %s\n\nExcerpt:\n---\n%s\n---",
			chunk.TopicHint, chunk.Text),
		Temperature: extractTemperature,
		Schema:      extractSchema(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to extract insights from chunk %d: %w", chunk.Index, err)
	}

	return resp.Insights, nil
}
