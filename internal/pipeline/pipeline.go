// Package pipeline orchestrates the full run: source processing, transcript
// processing, insight merge and dedup, content generation, and image intent
// derivation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repurpose/internal/core"
	"repurpose/internal/insights"
	"repurpose/internal/logger"
	"repurpose/internal/sources"
)

// RunOptions carries the per-run inputs and generation settings.
type RunOptions struct {
	Transcript              string
	SourceURLs              []string
	MaxInsights             int
	SelectedAngles          []core.PostAngle
	VersionsPerAngle        int
	SelectedArticleAngles   []core.ArticleAngle
	ArticleVersionsPerAngle int
}

// Pipeline wires the stages together. Collaborators are injected so each
// stage can be stubbed in tests.
type Pipeline struct {
	fetcher     Fetcher
	summarizer  Summarizer
	synthesizer Synthesizer
	segmenter   Segmenter
	extractor   Extractor
	posts       PostGenerator
	articles    ArticleGenerator
	intents     IntentDeriver
}

// New creates a pipeline from its collaborators.
func New(fetcher Fetcher, summarizer Summarizer, synthesizer Synthesizer, segmenter Segmenter, extractor Extractor, posts PostGenerator, articles ArticleGenerator, intents IntentDeriver) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		summarizer:  summarizer,
		synthesizer: synthesizer,
		segmenter:   segmenter,
		extractor:   extractor,
		posts:       posts,
		articles:    articles,
		intents:     intents,
	}
}

// Run executes the full pipeline. Source-processing failures degrade
// gracefully into PipelineResult.SourceErrors; any failure in generation or
// intent derivation aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*core.PipelineResult, error) {
	log := logger.Get()
	start := time.Now()

	hasTranscript := strings.TrimSpace(opts.Transcript) != ""
	hasSources := len(opts.SourceURLs) > 0
	if !hasTranscript && !hasSources {
		return nil, fmt.Errorf("nothing to process: no transcript and no source URLs")
	}
	if opts.MaxInsights < 1 {
		return nil, fmt.Errorf("max insights must be at least 1, got %d", opts.MaxInsights)
	}

	var sourceInsights []core.ExtractedInsight
	var sourceErrors []core.SourceError
	if hasSources {
		var err error
		sourceInsights, sourceErrors, err = p.processSources(ctx, opts.SourceURLs)
		if err != nil {
			return nil, err
		}
	}

	var transcriptInsights []core.ExtractedInsight
	if hasTranscript {
		var err error
		transcriptInsights, err = p.processTranscript(ctx, opts.Transcript)
		if err != nil {
			return nil, err
		}
	}

	// Transcript insights lead the merged list so primary material survives
	// dedup's first-wins policy over derived source material.
	merged := append(append([]core.ExtractedInsight{}, transcriptInsights...), sourceInsights...)
	deduped := insights.Dedupe(merged)
	if len(deduped) > opts.MaxInsights {
		deduped = deduped[:opts.MaxInsights]
	}
	log.Info("Insights selected",
		"merged", len(merged),
		"deduped", len(deduped),
		"max", opts.MaxInsights)

	if len(deduped) == 0 {
		return nil, fmt.Errorf("no insights survived extraction and deduplication")
	}

	result := &core.PipelineResult{
		Insights:     deduped,
		SourceErrors: sourceErrors,
	}

	for i, insight := range deduped {
		if len(opts.SelectedAngles) > 0 {
			batch, err := p.posts.Run(ctx, insight, opts.SelectedAngles, opts.VersionsPerAngle)
			if err != nil {
				return nil, fmt.Errorf("insight %d: %w", i, err)
			}
			result.Posts = append(result.Posts, batch.Posts...)
			result.AnglesGenerated = mergePostAngles(result.AnglesGenerated, batch.AnglesGenerated)
		}
		if len(opts.SelectedArticleAngles) > 0 {
			batch, err := p.articles.Run(ctx, insight, opts.SelectedArticleAngles, opts.ArticleVersionsPerAngle)
			if err != nil {
				return nil, fmt.Errorf("insight %d: %w", i, err)
			}
			result.Articles = append(result.Articles, batch.Articles...)
			result.ArticleAnglesGenerated = mergeArticleAngles(result.ArticleAnglesGenerated, batch.AnglesGenerated)
		}
	}

	if err := p.deriveIntents(ctx, result); err != nil {
		return nil, err
	}

	result.TotalPosts = len(result.Posts)
	result.TotalArticles = len(result.Articles)
	result.GeneratedAt = time.Now()
	result.Elapsed = time.Since(start)

	log.Info("Pipeline run complete",
		"insights", len(result.Insights),
		"posts", result.TotalPosts,
		"articles", result.TotalArticles,
		"image_intents", len(result.ImageIntents),
		"source_errors", len(result.SourceErrors),
		"elapsed", result.Elapsed)

	return result, nil
}

// processSources fetches, summarizes, and synthesizes source URLs. Per-URL
// fetch and summarize failures are folded into the error list; synthesis
// failure (or every source failing) is fatal only when sources are the sole
// input, which the caller detects via empty insights.
func (p *Pipeline) processSources(ctx context.Context, urls []string) ([]core.ExtractedInsight, []core.SourceError, error) {
	log := logger.Get()

	fetched := p.fetcher.FetchMany(ctx, urls)
	errorsSoFar := fetched.Failed

	if len(fetched.Succeeded) == 0 {
		log.Warn("All source fetches failed", "urls", len(urls))
		return nil, errorsSoFar, nil
	}

	summarized := p.summarizer.SummarizeAll(ctx, fetched.Succeeded)
	errorsSoFar = append(errorsSoFar, summarized.Failed...)

	if len(summarized.Succeeded) == 0 {
		log.Warn("All source summarizations failed", "documents", len(fetched.Succeeded))
		return nil, errorsSoFar, nil
	}

	distilled, err := p.synthesizer.Synthesize(ctx, summarized.Succeeded, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("source synthesis failed: %w", err)
	}

	return sources.ToExtractedInsights(distilled), errorsSoFar, nil
}

// processTranscript segments the transcript and extracts insights per chunk,
// preserving chunk order.
func (p *Pipeline) processTranscript(ctx context.Context, transcript string) ([]core.ExtractedInsight, error) {
	chunks, err := p.segmenter.Segment(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("transcript segmentation failed: %w", err)
	}

	var extracted []core.ExtractedInsight
	for _, chunk := range chunks {
		chunkInsights, err := p.extractor.Extract(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("insight extraction failed: %w", err)
		}
		extracted = append(extracted, chunkInsights...)
	}
	return extracted, nil
}

// deriveIntents produces one image intent per post and per article, in
// content order.
func (p *Pipeline) deriveIntents(ctx context.Context, result *core.PipelineResult) error {
	for _, post := range result.Posts {
		intent, err := p.intents.DeriveIntent(ctx, post.ID, post.FullText)
		if err != nil {
			return fmt.Errorf("image intent for post %s: %w", post.ID, err)
		}
		result.ImageIntents = append(result.ImageIntents, intent)
	}
	for _, article := range result.Articles {
		text := article.Title
		if article.Subtitle != "" {
			text += "\n" + article.Subtitle
		}
		text += "\n\n" + article.Introduction
		intent, err := p.intents.DeriveIntent(ctx, article.ID, text)
		if err != nil {
			return fmt.Errorf("image intent for article %s: %w", article.ID, err)
		}
		result.ImageIntents = append(result.ImageIntents, intent)
	}
	return nil
}

func mergePostAngles(existing, batch []core.PostAngle) []core.PostAngle {
	seen := make(map[core.PostAngle]bool, len(existing))
	for _, a := range existing {
		seen[a] = true
	}
	for _, a := range batch {
		if !seen[a] {
			existing = append(existing, a)
			seen[a] = true
		}
	}
	return existing
}

func mergeArticleAngles(existing, batch []core.ArticleAngle) []core.ArticleAngle {
	seen := make(map[core.ArticleAngle]bool, len(existing))
	for _, a := range existing {
		seen[a] = true
	}
	for _, a := range batch {
		if !seen[a] {
			existing = append(existing, a)
			seen[a] = true
		}
	}
	return existing
}
