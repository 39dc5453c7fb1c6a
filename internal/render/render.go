// Package render writes a pipeline result to disk as a markdown bundle.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"repurpose/internal/core"
)

// RenderMarkdownBundle writes the run's posts, articles, and image intents
// into one date-stamped markdown file under outputDir and returns the file
// path.
func RenderMarkdownBundle(result *core.PipelineResult, outputDir string) (string, error) {
	dateStr := time.Now().UTC().Format("2006-01-02")
	filename := fmt.Sprintf("content_%s.md", dateStr)

	if outputDir == "" {
		outputDir = "output"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)

	content := RenderMarkdown(result)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write content file %s: %w", filePath, err)
	}

	return filePath, nil
}

// RenderMarkdown formats a pipeline result as a single markdown document.
func RenderMarkdown(result *core.PipelineResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Generated Content - %s\n\n", time.Now().UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "%d insights, %d posts, %d articles, %d image intents.\n\n",
		len(result.Insights), result.TotalPosts, result.TotalArticles, len(result.ImageIntents))

	if len(result.SourceErrors) > 0 {
		b.WriteString("## Source Errors\n\n")
		for _, se := range result.SourceErrors {
			fmt.Fprintf(&b, "- %s: %s\n", se.URL, se.Error)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Insights\n\n")
	for i, insight := range result.Insights {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, insight.Topic)
		fmt.Fprintf(&b, "**Claim:** %s\n\n", insight.Claim)
		if insight.WhyItMatters != "" {
			fmt.Fprintf(&b, "**Why it matters:** %s\n\n", insight.WhyItMatters)
		}
		if insight.Misconception != "" {
			fmt.Fprintf(&b, "**Challenges:** %s\n\n", insight.Misconception)
		}
	}

	if len(result.Posts) > 0 {
		b.WriteString("## Posts\n\n")
		for _, post := range result.Posts {
			fmt.Fprintf(&b, "### %s (v%d)\n\n", post.Angle, post.VersionNumber)
			b.WriteString(post.FullText + "\n\n")
			if post.OpenQuestion != "" {
				fmt.Fprintf(&b, "*Discussion:* %s\n\n", post.OpenQuestion)
			}
			b.WriteString("---\n\n")
		}
	}

	if len(result.Articles) > 0 {
		b.WriteString("## Articles\n\n")
		for _, article := range result.Articles {
			fmt.Fprintf(&b, "### %s (%s v%d)\n\n", article.Title, article.Angle, article.VersionNumber)
			b.WriteString(article.FullText + "\n\n")
			b.WriteString("---\n\n")
		}
	}

	if len(result.ImageIntents) > 0 {
		b.WriteString("## Image Intents\n\n")
		for _, intent := range result.ImageIntents {
			fmt.Fprintf(&b, "### %s\n\n", intent.HeadlineText)
			fmt.Fprintf(&b, "- Content: %s\n", intent.ContentID)
			fmt.Fprintf(&b, "- Style: %s\n", intent.StylePreset)
			fmt.Fprintf(&b, "- Prompt: %s\n", intent.Prompt)
			if intent.NegativePrompt != "" {
				fmt.Fprintf(&b, "- Avoid: %s\n", intent.NegativePrompt)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
