package pipeline

import (
	"context"

	"repurpose/internal/core"
	"repurpose/internal/fetch"
	"repurpose/internal/sources"
	"repurpose/internal/writer"
)

// Fetcher retrieves readable documents from source URLs.
type Fetcher interface {
	FetchMany(ctx context.Context, urls []string) fetch.BatchResult
}

// Summarizer condenses fetched documents into per-source summaries.
type Summarizer interface {
	SummarizeAll(ctx context.Context, docs []core.Document) sources.SummaryBatch
}

// Synthesizer distills cross-source insights from summaries.
type Synthesizer interface {
	Synthesize(ctx context.Context, summaries []core.SourceSummary, transcriptInsights []core.ExtractedInsight) ([]core.DistilledInsight, error)
}

// Segmenter splits raw transcript text into topic-coherent chunks.
type Segmenter interface {
	Segment(ctx context.Context, rawTranscript string) ([]core.TranscriptChunk, error)
}

// Extractor proposes candidate insights from one transcript chunk.
type Extractor interface {
	Extract(ctx context.Context, chunk core.TranscriptChunk) ([]core.ExtractedInsight, error)
}

// PostGenerator fans post generation out over angles and versions for one
// insight.
type PostGenerator interface {
	Run(ctx context.Context, insight core.ExtractedInsight, selectedAngles []core.PostAngle, versionsPerAngle int) (writer.PostBatch, error)
}

// ArticleGenerator is the long-form counterpart of PostGenerator.
type ArticleGenerator interface {
	Run(ctx context.Context, insight core.ExtractedInsight, selectedAngles []core.ArticleAngle, versionsPerAngle int) (writer.ArticleBatch, error)
}

// IntentDeriver produces an image intent for one finished content item.
type IntentDeriver interface {
	DeriveIntent(ctx context.Context, contentID, contentText string) (core.ImageIntent, error)
}
