// Package segment splits raw transcripts into ordered, topically coherent
// chunks.
package segment

import (
	"context"
	"fmt"
	"strings"

	"repurpose/internal/core"
	"repurpose/internal/llm"

	"google.golang.org/genai"
)

const segmentTemperature = 0.2

const segmentSystemInstruction = `You segment raw spoken-word transcripts into clean, topically coherent chunks for downstream analysis.

Rules:
- Remove timestamps, speaker labels, filler words, and promotional asides (sponsor reads, calls to subscribe, merch plugs).
- Each chunk should be roughly 200-400 words and cover one coherent topic.
- Break at natural topic shifts, never mid-thought.
- Preserve the original order of the conversation.
- Give each chunk a short topic_hint (3-8 words) naming what it covers.
- Keep the speaker's actual words; clean, do not paraphrase.`

// segmentSchema is the structured-output contract for a segmentation call.
func segmentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"chunks": {
				Type:        genai.TypeArray,
				Description: "Ordered topically coherent chunks of the transcript",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text": {
							Type:        genai.TypeString,
							Description: "Cleaned chunk text, roughly 200-400 words",
						},
						"topic_hint": {
							Type:        genai.TypeString,
							Description: "Short label (3-8 words) for the chunk's topic",
						},
					},
					Required: []string{"text", "topic_hint"},
				},
			},
		},
		Required: []string{"chunks"},
	}
}

type segmentChunk struct {
	Text      string `json:"text"`
	TopicHint string `json:"topic_hint"`
}

type segmentResponse struct {
	Chunks []segmentChunk `json:"chunks"`
}

func (r *segmentResponse) Validate() error {
	if len(r.Chunks) == 0 {
		return fmt.Errorf("segmentation produced no chunks")
	}
	for i, chunk := range r.Chunks {
		if strings.TrimSpace(chunk.Text) == "" {
			return fmt.Errorf("chunk %d has empty text", i)
		}
		if strings.TrimSpace(chunk.TopicHint) == "" {
			return fmt.Errorf("chunk %d has empty topic_hint", i)
		}
	}
	return nil
}

// Segmenter splits transcripts using one gateway call per transcript.
type Segmenter struct {
	gateway llm.Gateway
}

// NewSegmenter creates a segmenter backed by the given gateway.
func NewSegmenter(gateway llm.Gateway) *Segmenter {
	return &Segmenter{gateway: gateway}
}

// Segment splits rawTranscript into ordered chunks, stripping timestamps,
// speaker tags, and ad content. Chunk order matches transcript order and
// indexes are assigned densely from zero.
func (s *Segmenter) Segment(ctx context.Context, rawTranscript string) ([]core.TranscriptChunk, error) {
	if strings.TrimSpace(rawTranscript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	var resp segmentResponse
	err := s.gateway.GenerateObject(ctx, llm.Request{
		System:      segmentSystemInstruction,
		User:        fmt.Sprintf("Segment this transcript:\n\n---\n%s\n---", rawTranscript),
		Temperature: segmentTemperature,
		Schema:      segmentSchema(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to segment transcript: %w", err)
	}

	chunks := make([]core.TranscriptChunk, len(resp.Chunks))
	for i, chunk := range resp.Chunks {
		chunks[i] = core.TranscriptChunk{
			Index:     i,
			Text:      strings.TrimSpace(chunk.Text),
			TopicHint: strings.TrimSpace(chunk.TopicHint),
		}
	}
	return chunks, nil
}
