package sources

import (
	"context"
	"fmt"
	"strings"

	"repurpose/internal/core"
	"repurpose/internal/llm"

	"google.golang.org/genai"
)

const synthesizeTemperature = 0.8

const synthesizeSystemInstruction = `You synthesize insights across multiple source summaries.

Look for themes that connect sources: agreements, tensions, and patterns no
single source states outright. For each theme, produce one synthesized claim
that goes beyond restating any individual source.

Produce between 2 and 4 distilled insights. Each must cite the source IDs it
draws from. Prefer claims supported by more than one source, and name the
common misreading each claim corrects when one exists.`

func synthesizeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"insights": {
				Type:        genai.TypeArray,
				Description: "Between 2 and 4 cross-source insights",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"theme": {
							Type:        genai.TypeString,
							Description: "Connecting theme across sources",
						},
						"synthesized_claim": {
							Type:        genai.TypeString,
							Description: "Claim going beyond any single source",
						},
						"supporting_sources": {
							Type:        genai.TypeArray,
							Description: "Source IDs the claim draws from",
							Items:       &genai.Schema{Type: genai.TypeString},
						},
						"why_it_matters": {
							Type:        genai.TypeString,
							Description: "Why the audience should care",
						},
						"common_misread": {
							Type:        genai.TypeString,
							Description: "Misreading of the sources this corrects, if any",
						},
					},
					Required: []string{"theme", "synthesized_claim", "supporting_sources", "why_it_matters"},
				},
			},
		},
		Required: []string{"insights"},
	}
}

type synthesizeResponse struct {
	Insights []core.DistilledInsight `json:"insights"`
}

func (r *synthesizeResponse) Validate() error {
	if len(r.Insights) < 2 || len(r.Insights) > 4 {
		return fmt.Errorf("expected 2-4 distilled insights, got %d", len(r.Insights))
	}
	for i, insight := range r.Insights {
		if strings.TrimSpace(insight.SynthesizedClaim) == "" {
			return fmt.Errorf("distilled insight %d has empty claim", i)
		}
		if len(insight.SupportingSources) == 0 {
			return fmt.Errorf("distilled insight %d cites no sources", i)
		}
	}
	return nil
}

// Synthesizer distills cross-source insights from a set of summaries in a
// single gateway call.
type Synthesizer struct {
	gateway llm.Gateway
}

// NewSynthesizer creates a synthesizer backed by the given gateway.
func NewSynthesizer(gateway llm.Gateway) *Synthesizer {
	return &Synthesizer{gateway: gateway}
}

// Synthesize distills 2-4 insights across all summaries. It requires at
// least one summary. Transcript insights, when already available, are folded
// into the prompt as context so synthesis can connect sources to them.
func (s *Synthesizer) Synthesize(ctx context.Context, summaries []core.SourceSummary, transcriptInsights []core.ExtractedInsight) ([]core.DistilledInsight, error) {
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no source summaries to synthesize")
	}

	var resp synthesizeResponse
	err := s.gateway.GenerateObject(ctx, llm.Request{
		System:      synthesizeSystemInstruction,
		User:        renderSynthesisPrompt(summaries, transcriptInsights),
		Temperature: synthesizeTemperature,
		Schema:      synthesizeSchema(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize insights: %w", err)
	}

	return resp.Insights, nil
}

func renderSynthesisPrompt(summaries []core.SourceSummary, transcriptInsights []core.ExtractedInsight) string {
	var b strings.Builder
	b.WriteString("Source summaries:\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "\n[%s] %s (%s)\n", s.SourceID, s.Title, s.URL)
		if len(s.MainClaims) > 0 {
			b.WriteString("Main claims:\n")
			for _, c := range s.MainClaims {
				fmt.Fprintf(&b, "- %s\n", c)
			}
		}
		if len(s.KeyDetails) > 0 {
			b.WriteString("Key details:\n")
			for _, d := range s.KeyDetails {
				fmt.Fprintf(&b, "- %s\n", d)
			}
		}
		if len(s.ImpliedAssumptions) > 0 {
			b.WriteString("Implied assumptions:\n")
			for _, a := range s.ImpliedAssumptions {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}
		fmt.Fprintf(&b, "Relevance: %s\n", s.Relevance)
	}
	if len(transcriptInsights) > 0 {
		b.WriteString("\nInsights already extracted from the transcript, for context:\n")
		for _, insight := range transcriptInsights {
			fmt.Fprintf(&b, "- [%s] %s\n", insight.Topic, insight.Claim)
		}
	}
	return b.String()
}

// ToExtractedInsights maps distilled insights into the common insight shape
// the writers consume, so transcript-derived and source-derived insights flow
// through one pipeline.
func ToExtractedInsights(distilled []core.DistilledInsight) []core.ExtractedInsight {
	out := make([]core.ExtractedInsight, 0, len(distilled))
	for _, d := range distilled {
		out = append(out, core.ExtractedInsight{
			Topic:         d.Theme,
			Claim:         d.SynthesizedClaim,
			WhyItMatters:  d.WhyItMatters,
			Misconception: d.CommonMisread,
			ProfessionalImplication: fmt.Sprintf("Drawn from %s",
				strings.Join(d.SupportingSources, ", ")),
		})
	}
	return out
}
