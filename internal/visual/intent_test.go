package visual

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"repurpose/internal/core"
	"repurpose/internal/llm"
)

type mockGateway struct {
	payload    string
	shouldFail bool
	lastSystem string
	callCount  int
}

func (m *mockGateway) GenerateObject(_ context.Context, req llm.Request, out llm.Validator) error {
	m.callCount++
	m.lastSystem = req.System
	if m.shouldFail {
		return &llm.ProviderError{Provider: "mock", Err: errors.New("mock failure")}
	}
	if err := json.Unmarshal([]byte(m.payload), out); err != nil {
		return err
	}
	return out.Validate()
}

func (m *mockGateway) Model() string { return "mock-model" }

const intentPayload = `{
	"prompt": "Sparse desk at dawn, single sheet of paper, soft window light, muted tones",
	"negative_prompt": "text, watermark, light bulbs, busy background",
	"headline_text": "Direction beats speed",
	"style_preset": "editorial"
}`

func TestDeriveIntentPopulatesFields(t *testing.T) {
	gateway := &mockGateway{payload: intentPayload}
	generator := NewIntentGenerator(gateway)

	intent, err := generator.DeriveIntent(context.Background(), "post-123",
		"Everyone says move fast. Nobody says toward what.")
	if err != nil {
		t.Fatalf("DeriveIntent failed: %v", err)
	}
	if intent.ID == "" {
		t.Error("intent should get a generated ID")
	}
	if intent.ContentID != "post-123" {
		t.Errorf("unexpected content ID: %q", intent.ContentID)
	}
	if intent.StylePreset != core.StyleEditorial {
		t.Errorf("unexpected preset: %q", intent.StylePreset)
	}
	if !strings.Contains(gateway.lastSystem, "brand colors") {
		t.Error("system instruction should forbid concrete brand colors")
	}
}

func TestDeriveIntentClampsHeadline(t *testing.T) {
	long := `{
		"prompt": "p",
		"headline_text": "one two three four five six seven eight nine ten",
		"style_preset": "tech"
	}`
	gateway := &mockGateway{payload: long}
	generator := NewIntentGenerator(gateway)

	intent, err := generator.DeriveIntent(context.Background(), "c1", "content")
	if err != nil {
		t.Fatalf("DeriveIntent failed: %v", err)
	}
	if got := len(strings.Fields(intent.HeadlineText)); got != 8 {
		t.Errorf("headline should be clamped to 8 words, got %d", got)
	}
	if intent.HeadlineText != "one two three four five six seven eight" {
		t.Errorf("unexpected clamped headline: %q", intent.HeadlineText)
	}
}

func TestDeriveIntentFallsBackToMinimalist(t *testing.T) {
	bad := `{
		"prompt": "p",
		"headline_text": "h",
		"style_preset": "vaporwave"
	}`
	gateway := &mockGateway{payload: bad}
	generator := NewIntentGenerator(gateway)

	intent, err := generator.DeriveIntent(context.Background(), "c1", "content")
	if err != nil {
		t.Fatalf("DeriveIntent failed: %v", err)
	}
	if intent.StylePreset != core.StyleMinimalist {
		t.Errorf("expected minimalist fallback, got %q", intent.StylePreset)
	}
}

func TestDeriveIntentRejectsEmptyContent(t *testing.T) {
	gateway := &mockGateway{payload: intentPayload}
	generator := NewIntentGenerator(gateway)

	if _, err := generator.DeriveIntent(context.Background(), "c1", "  "); err == nil {
		t.Fatal("expected error for empty content text")
	}
	if gateway.callCount != 0 {
		t.Error("gateway should not be called for empty content")
	}
}

func TestDeriveIntentPropagatesGatewayError(t *testing.T) {
	gateway := &mockGateway{shouldFail: true}
	generator := NewIntentGenerator(gateway)

	_, err := generator.DeriveIntent(context.Background(), "c1", "content")
	if err == nil {
		t.Fatal("expected error from failing gateway")
	}
	if !llm.IsProviderError(err) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestResolvePresetCaseInsensitive(t *testing.T) {
	if got := resolvePreset(" Photographic "); got != core.StylePhotographic {
		t.Errorf("expected photographic, got %q", got)
	}
}
