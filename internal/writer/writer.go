// Package writer turns insights into posts and articles across a fixed set
// of stylistic angles, and supervises the fan-out across angles and versions.
package writer

import (
	"context"
	"fmt"
	"strings"

	"repurpose/internal/core"
	"repurpose/internal/llm"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	postTemperature    = 0.85
	articleTemperature = 0.75
)

func postSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"hook": {
				Type:        genai.TypeString,
				Description: "Opening one or two sentences",
			},
			"body_beats": {
				Type:        genai.TypeArray,
				Description: "3-5 standalone beats developing the insight",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"open_question": {
				Type:        genai.TypeString,
				Description: "Genuine discussion question",
			},
			"full_text": {
				Type:        genai.TypeString,
				Description: "Complete post ready to publish",
			},
		},
		Required: []string{"hook", "body_beats", "open_question", "full_text"},
	}
}

func articleSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    {Type: genai.TypeString},
			"subtitle": {Type: genai.TypeString},
			"introduction": {
				Type:        genai.TypeString,
				Description: "2-3 paragraphs establishing stakes",
			},
			"sections": {
				Type:        genai.TypeArray,
				Description: "3-6 sections with heading and body",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"heading": {Type: genai.TypeString},
						"body":    {Type: genai.TypeString},
					},
					Required: []string{"heading", "body"},
				},
			},
			"conclusion": {Type: genai.TypeString},
			"full_text": {
				Type:        genai.TypeString,
				Description: "Complete article in markdown",
			},
		},
		Required: []string{"title", "introduction", "sections", "conclusion", "full_text"},
	}
}

type postResponse struct {
	Hook         string   `json:"hook"`
	BodyBeats    []string `json:"body_beats"`
	OpenQuestion string   `json:"open_question"`
	FullText     string   `json:"full_text"`
}

func (r *postResponse) Validate() error {
	if strings.TrimSpace(r.Hook) == "" {
		return fmt.Errorf("post has empty hook")
	}
	if len(r.BodyBeats) == 0 {
		return fmt.Errorf("post has no body beats")
	}
	if strings.TrimSpace(r.FullText) == "" {
		return fmt.Errorf("post has empty full text")
	}
	return nil
}

type articleResponse struct {
	Title        string                `json:"title"`
	Subtitle     string                `json:"subtitle"`
	Introduction string                `json:"introduction"`
	Sections     []core.ArticleSection `json:"sections"`
	Conclusion   string                `json:"conclusion"`
	FullText     string                `json:"full_text"`
}

func (r *articleResponse) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("article has empty title")
	}
	if len(r.Sections) == 0 {
		return fmt.Errorf("article has no sections")
	}
	if strings.TrimSpace(r.FullText) == "" {
		return fmt.Errorf("article has empty full text")
	}
	return nil
}

// Writer generates individual posts and articles from an insight. A voice
// profile, when configured, is appended to every system instruction so all
// angles share one authorial voice.
type Writer struct {
	gateway      llm.Gateway
	voiceProfile string
}

// NewWriter creates a writer backed by the given gateway. voiceProfile may
// be empty.
func NewWriter(gateway llm.Gateway, voiceProfile string) *Writer {
	return &Writer{gateway: gateway, voiceProfile: voiceProfile}
}

func (w *Writer) systemInstruction(angleInstruction, structureInstruction string) string {
	parts := []string{angleInstruction, structureInstruction}
	if w.voiceProfile != "" {
		parts = append(parts, "Voice profile:\n"+w.voiceProfile)
	}
	return strings.Join(parts, "\n\n")
}

// WritePost generates one post version for an insight under the given angle.
func (w *Writer) WritePost(ctx context.Context, insight core.ExtractedInsight, angle core.PostAngle, versionNumber int) (core.Post, error) {
	instruction, ok := postAngleInstructions[angle]
	if !ok {
		return core.Post{}, fmt.Errorf("unknown post angle: %s", angle)
	}

	var resp postResponse
	err := w.gateway.GenerateObject(ctx, llm.Request{
		System:      w.systemInstruction(instruction, postStructureInstruction),
		User:        renderInsight(insight),
		Temperature: postTemperature,
		Schema:      postSchema(),
	}, &resp)
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to write %s post v%d: %w", angle, versionNumber, err)
	}

	return core.Post{
		ID:            uuid.New().String(),
		Angle:         angle,
		VersionNumber: versionNumber,
		Hook:          resp.Hook,
		BodyBeats:     resp.BodyBeats,
		OpenQuestion:  resp.OpenQuestion,
		FullText:      resp.FullText,
	}, nil
}

// WriteArticle generates one article version for an insight under the given
// angle.
func (w *Writer) WriteArticle(ctx context.Context, insight core.ExtractedInsight, angle core.ArticleAngle, versionNumber int) (core.Article, error) {
	instruction, ok := articleAngleInstructions[angle]
	if !ok {
		return core.Article{}, fmt.Errorf("unknown article angle: %s", angle)
	}

	var resp articleResponse
	err := w.gateway.GenerateObject(ctx, llm.Request{
		System:      w.systemInstruction(instruction, articleStructureInstruction),
		User:        renderInsight(insight),
		Temperature: articleTemperature,
		Schema:      articleSchema(),
	}, &resp)
	if err != nil {
		return core.Article{}, fmt.Errorf("failed to write %s article v%d: %w", angle, versionNumber, err)
	}

	return core.Article{
		ID:            uuid.New().String(),
		Angle:         angle,
		VersionNumber: versionNumber,
		Title:         resp.Title,
		Subtitle:      resp.Subtitle,
		Introduction:  resp.Introduction,
		Sections:      resp.Sections,
		Conclusion:    resp.Conclusion,
		FullText:      resp.FullText,
	}, nil
}
