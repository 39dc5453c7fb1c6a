// Package sources turns fetched reference documents into per-source
// summaries and synthesizes them into cross-source insights.
package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"repurpose/internal/core"
	"repurpose/internal/llm"
	"repurpose/internal/logger"

	"google.golang.org/genai"
)

const summarizeTemperature = 0.2

const summarizeSystemInstruction = `You summarize a reference document for a content strategist.

Capture:
- The main claims the document argues for.
- Key supporting details: numbers, named examples, mechanisms.
- Assumptions the document makes without arguing for them.
- A one-line assessment of how relevant this material is for professional commentary.

Report only what the document says. Do not add outside knowledge.`

func summarizeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "Document title, cleaned up",
			},
			"main_claims": {
				Type:        genai.TypeArray,
				Description: "Central claims the document makes",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"key_details": {
				Type:        genai.TypeArray,
				Description: "Concrete supporting details worth quoting",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"implied_assumptions": {
				Type:        genai.TypeArray,
				Description: "Unargued assumptions the document rests on",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"relevance": {
				Type:        genai.TypeString,
				Description: "One-line relevance assessment",
			},
		},
		Required: []string{"title", "main_claims", "relevance"},
	}
}

type summarizeResponse struct {
	Title              string   `json:"title"`
	MainClaims         []string `json:"main_claims"`
	KeyDetails         []string `json:"key_details"`
	ImpliedAssumptions []string `json:"implied_assumptions"`
	Relevance          string   `json:"relevance"`
}

func (r *summarizeResponse) Validate() error {
	if len(r.MainClaims) == 0 {
		return fmt.Errorf("summary has no main claims")
	}
	if strings.TrimSpace(r.Relevance) == "" {
		return fmt.Errorf("summary has empty relevance")
	}
	return nil
}

// Summarizer condenses fetched documents into structured summaries.
type Summarizer struct {
	gateway llm.Gateway
}

// NewSummarizer creates a summarizer backed by the given gateway.
func NewSummarizer(gateway llm.Gateway) *Summarizer {
	return &Summarizer{gateway: gateway}
}

// Summarize condenses one document into a structured summary. The sourceID
// is assigned by the caller and carried through to synthesis.
func (s *Summarizer) Summarize(ctx context.Context, sourceID string, doc core.Document) (core.SourceSummary, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return core.SourceSummary{}, fmt.Errorf("document %s has no content to summarize", doc.URL)
	}

	var resp summarizeResponse
	err := s.gateway.GenerateObject(ctx, llm.Request{
		System: summarizeSystemInstruction,
		User: fmt.Sprintf("Title: %s\nURL: %s\n\nDocument:\n---\n%s\n---",
			doc.Title, doc.URL, doc.Content),
		Temperature: summarizeTemperature,
		Schema:      summarizeSchema(),
	}, &resp)
	if err != nil {
		return core.SourceSummary{}, fmt.Errorf("failed to summarize %s: %w", doc.URL, err)
	}

	title := resp.Title
	if strings.TrimSpace(title) == "" {
		title = doc.Title
	}

	return core.SourceSummary{
		SourceID:           sourceID,
		URL:                doc.URL,
		Title:              title,
		MainClaims:         resp.MainClaims,
		KeyDetails:         resp.KeyDetails,
		ImpliedAssumptions: resp.ImpliedAssumptions,
		Relevance:          resp.Relevance,
	}, nil
}

// SummaryBatch partitions a fan-out summarization run into successes and
// per-document failures.
type SummaryBatch struct {
	Succeeded []core.SourceSummary
	Failed    []core.SourceError
}

// SummarizeAll summarizes documents concurrently. One document failing does
// not abort the others; failures are reported alongside successes, and
// successes keep input order. Source IDs are assigned positionally (s1, s2,
// ...) so synthesis can cite them.
func (s *Summarizer) SummarizeAll(ctx context.Context, docs []core.Document) SummaryBatch {
	log := logger.Get()

	type outcome struct {
		summary core.SourceSummary
		err     error
	}
	outcomes := make([]outcome, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc core.Document) {
			defer wg.Done()
			sourceID := fmt.Sprintf("s%d", i+1)
			summary, err := s.Summarize(ctx, sourceID, doc)
			outcomes[i] = outcome{summary: summary, err: err}
		}(i, doc)
	}
	wg.Wait()

	var batch SummaryBatch
	for i, o := range outcomes {
		if o.err != nil {
			log.Warn("Source summarization failed",
				"url", docs[i].URL,
				"error", o.err)
			batch.Failed = append(batch.Failed, core.SourceError{
				URL:   docs[i].URL,
				Error: o.err.Error(),
			})
			continue
		}
		batch.Succeeded = append(batch.Succeeded, o.summary)
	}
	return batch
}
