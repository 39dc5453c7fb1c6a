package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"repurpose/internal/core"
)

func sampleResult() *core.PipelineResult {
	return &core.PipelineResult{
		Insights: []core.ExtractedInsight{
			{Topic: "velocity", Claim: "Speed metrics reward churn", WhyItMatters: "Teams optimize what they measure"},
		},
		Posts: []core.Post{
			{ID: "p1", Angle: core.AngleContrarian, VersionNumber: 1, FullText: "Everyone says move fast...", OpenQuestion: "Toward what?"},
		},
		Articles: []core.Article{
			{ID: "a1", Angle: core.ArticleAngleDeepDive, VersionNumber: 1, Title: "The Direction Problem", FullText: "# The Direction Problem\n..."},
		},
		ImageIntents: []core.ImageIntent{
			{ID: "i1", ContentID: "p1", Prompt: "sparse desk at dawn", HeadlineText: "Direction beats speed", StylePreset: core.StyleEditorial},
		},
		SourceErrors:  []core.SourceError{{URL: "https://broken.example.com", Error: "timeout"}},
		TotalPosts:    1,
		TotalArticles: 1,
	}
}

func TestRenderMarkdownIncludesAllSections(t *testing.T) {
	content := RenderMarkdown(sampleResult())

	for _, want := range []string{
		"## Insights",
		"## Posts",
		"## Articles",
		"## Image Intents",
		"## Source Errors",
		"Everyone says move fast...",
		"The Direction Problem",
		"Direction beats speed",
		"https://broken.example.com: timeout",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownOmitsEmptySections(t *testing.T) {
	result := &core.PipelineResult{
		Insights: []core.ExtractedInsight{{Topic: "t", Claim: "c"}},
	}
	content := RenderMarkdown(result)

	if strings.Contains(content, "## Posts") {
		t.Error("empty post list should not render a Posts section")
	}
	if strings.Contains(content, "## Source Errors") {
		t.Error("no source errors should not render an errors section")
	}
}

func TestRenderMarkdownBundleWritesFile(t *testing.T) {
	dir := t.TempDir()

	path, err := RenderMarkdownBundle(sampleResult(), dir)
	if err != nil {
		t.Fatalf("RenderMarkdownBundle failed: %v", err)
	}

	expected := filepath.Join(dir, "content_"+time.Now().UTC().Format("2006-01-02")+".md")
	if path != expected {
		t.Errorf("unexpected path: got %q, want %q", path, expected)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "# Generated Content") {
		t.Error("output file missing document title")
	}
}
