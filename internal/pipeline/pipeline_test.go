package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"repurpose/internal/core"
	"repurpose/internal/fetch"
	"repurpose/internal/sources"
	"repurpose/internal/writer"
)

type stubFetcher struct {
	result fetch.BatchResult
	called bool
}

func (s *stubFetcher) FetchMany(_ context.Context, urls []string) fetch.BatchResult {
	s.called = true
	return s.result
}

type stubSummarizer struct {
	result sources.SummaryBatch
}

func (s *stubSummarizer) SummarizeAll(_ context.Context, docs []core.Document) sources.SummaryBatch {
	return s.result
}

type stubSynthesizer struct {
	insights []core.DistilledInsight
	err      error
}

func (s *stubSynthesizer) Synthesize(_ context.Context, summaries []core.SourceSummary, _ []core.ExtractedInsight) ([]core.DistilledInsight, error) {
	return s.insights, s.err
}

type stubSegmenter struct {
	chunks []core.TranscriptChunk
	err    error
	called bool
}

func (s *stubSegmenter) Segment(_ context.Context, raw string) ([]core.TranscriptChunk, error) {
	s.called = true
	return s.chunks, s.err
}

type stubExtractor struct {
	perChunk map[int][]core.ExtractedInsight
}

func (s *stubExtractor) Extract(_ context.Context, chunk core.TranscriptChunk) ([]core.ExtractedInsight, error) {
	return s.perChunk[chunk.Index], nil
}

type stubPostGenerator struct {
	err  error
	runs int
}

func (s *stubPostGenerator) Run(_ context.Context, insight core.ExtractedInsight, angles []core.PostAngle, versions int) (writer.PostBatch, error) {
	s.runs++
	if s.err != nil {
		return writer.PostBatch{}, s.err
	}
	var posts []core.Post
	for _, angle := range angles {
		for v := 1; v <= versions; v++ {
			posts = append(posts, core.Post{
				ID:            fmt.Sprintf("post-%s-%d-%d", angle, s.runs, v),
				Angle:         angle,
				VersionNumber: v,
				FullText:      insight.Claim,
			})
		}
	}
	return writer.PostBatch{Posts: posts, AnglesGenerated: angles, TotalPosts: len(posts)}, nil
}

type stubArticleGenerator struct {
	err  error
	runs int
}

func (s *stubArticleGenerator) Run(_ context.Context, insight core.ExtractedInsight, angles []core.ArticleAngle, versions int) (writer.ArticleBatch, error) {
	s.runs++
	if s.err != nil {
		return writer.ArticleBatch{}, s.err
	}
	var articles []core.Article
	for _, angle := range angles {
		for v := 1; v <= versions; v++ {
			articles = append(articles, core.Article{
				ID:            fmt.Sprintf("article-%s-%d-%d", angle, s.runs, v),
				Angle:         angle,
				VersionNumber: v,
				Title:         insight.Claim,
			})
		}
	}
	return writer.ArticleBatch{Articles: articles, AnglesGenerated: angles, TotalArticles: len(articles)}, nil
}

type stubIntentDeriver struct {
	err   error
	calls int
}

func (s *stubIntentDeriver) DeriveIntent(_ context.Context, contentID, contentText string) (core.ImageIntent, error) {
	s.calls++
	if s.err != nil {
		return core.ImageIntent{}, s.err
	}
	return core.ImageIntent{
		ID:          fmt.Sprintf("intent-%d", s.calls),
		ContentID:   contentID,
		Prompt:      "prompt",
		StylePreset: core.StyleMinimalist,
	}, nil
}

func newTestPipeline() (*Pipeline, *stubFetcher, *stubSegmenter, *stubPostGenerator, *stubArticleGenerator, *stubIntentDeriver) {
	fetcher := &stubFetcher{}
	segmenter := &stubSegmenter{
		chunks: []core.TranscriptChunk{{Index: 0, Text: "chunk", TopicHint: "velocity"}},
	}
	posts := &stubPostGenerator{}
	articles := &stubArticleGenerator{}
	intents := &stubIntentDeriver{}
	extractor := &stubExtractor{perChunk: map[int][]core.ExtractedInsight{
		0: {{Topic: "velocity", Claim: "Speed metrics reward churn over direction"}},
	}}
	p := New(fetcher, &stubSummarizer{}, &stubSynthesizer{}, segmenter, extractor, posts, articles, intents)
	return p, fetcher, segmenter, posts, articles, intents
}

func TestRunTranscriptOnlyExampleCounts(t *testing.T) {
	p, fetcher, _, _, _, intents := newTestPipeline()

	result, err := p.Run(context.Background(), RunOptions{
		Transcript:       "raw transcript text",
		MaxInsights:      1,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian, core.AngleFieldNote},
		VersionsPerAngle: 2,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fetcher.called {
		t.Error("fetcher should be skipped with no source URLs")
	}
	if len(result.Insights) != 1 {
		t.Errorf("expected 1 insight, got %d", len(result.Insights))
	}
	if len(result.Posts) != 4 {
		t.Errorf("expected 4 posts (2 angles x 2 versions), got %d", len(result.Posts))
	}
	if result.TotalPosts != len(result.Posts) {
		t.Errorf("TotalPosts %d disagrees with len(Posts) %d", result.TotalPosts, len(result.Posts))
	}
	wantAngles := []core.PostAngle{core.AngleContrarian, core.AngleFieldNote}
	if len(result.AnglesGenerated) != len(wantAngles) {
		t.Fatalf("unexpected angles generated: %v", result.AnglesGenerated)
	}
	for i, angle := range wantAngles {
		if result.AnglesGenerated[i] != angle {
			t.Errorf("angle %d: got %q, want %q", i, result.AnglesGenerated[i], angle)
		}
	}
	if intents.calls != 4 {
		t.Errorf("expected one intent per post, got %d calls", intents.calls)
	}
	if len(result.ImageIntents) != 4 {
		t.Errorf("expected 4 image intents, got %d", len(result.ImageIntents))
	}
}

func TestRunRequiresSomeInput(t *testing.T) {
	p, _, _, _, _, _ := newTestPipeline()

	_, err := p.Run(context.Background(), RunOptions{MaxInsights: 1})
	if err == nil {
		t.Fatal("expected error with no transcript and no sources")
	}
}

func TestRunSkipsTranscriptStageWhenEmpty(t *testing.T) {
	p, _, segmenter, _, _, _ := newTestPipeline()
	p.synthesizer = &stubSynthesizer{insights: []core.DistilledInsight{
		{Theme: "t", SynthesizedClaim: "claim one", SupportingSources: []string{"s1"}, WhyItMatters: "w"},
		{Theme: "t2", SynthesizedClaim: "totally different words here", SupportingSources: []string{"s1"}, WhyItMatters: "w"},
	}}
	p.fetcher = &stubFetcher{result: fetch.BatchResult{
		Succeeded: []core.Document{{URL: "https://a.example.com", Content: "body"}},
	}}
	p.summarizer = &stubSummarizer{result: sources.SummaryBatch{
		Succeeded: []core.SourceSummary{{SourceID: "s1", URL: "https://a.example.com", MainClaims: []string{"c"}, Relevance: "high"}},
	}}

	result, err := p.Run(context.Background(), RunOptions{
		Transcript:       "   ",
		SourceURLs:       []string{"https://a.example.com"},
		MaxInsights:      5,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian},
		VersionsPerAngle: 1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if segmenter.called {
		t.Error("segmenter should be skipped for a blank transcript")
	}
	if len(result.Insights) != 2 {
		t.Errorf("expected 2 source-derived insights, got %d", len(result.Insights))
	}
}

func TestRunRecordsSourceErrorsWithoutAborting(t *testing.T) {
	p, _, _, _, _, _ := newTestPipeline()
	p.fetcher = &stubFetcher{result: fetch.BatchResult{
		Succeeded: []core.Document{{URL: "https://a.example.com", Content: "body"}},
		Failed:    []core.SourceError{{URL: "https://broken.example.com", Error: "timeout"}},
	}}
	p.summarizer = &stubSummarizer{result: sources.SummaryBatch{
		Succeeded: []core.SourceSummary{{SourceID: "s1", URL: "https://a.example.com", MainClaims: []string{"c"}, Relevance: "high"}},
	}}
	p.synthesizer = &stubSynthesizer{insights: []core.DistilledInsight{
		{Theme: "t", SynthesizedClaim: "some wholly novel claim", SupportingSources: []string{"s1"}, WhyItMatters: "w"},
		{Theme: "t2", SynthesizedClaim: "other distinct finding entirely", SupportingSources: []string{"s1"}, WhyItMatters: "w"},
	}}

	result, err := p.Run(context.Background(), RunOptions{
		Transcript:       "raw transcript",
		SourceURLs:       []string{"https://a.example.com", "https://broken.example.com"},
		MaxInsights:      10,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian},
		VersionsPerAngle: 1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.SourceErrors) != 1 {
		t.Fatalf("expected 1 source error, got %d", len(result.SourceErrors))
	}
	if result.SourceErrors[0].URL != "https://broken.example.com" {
		t.Errorf("unexpected source error URL: %q", result.SourceErrors[0].URL)
	}
}

func TestRunTranscriptInsightsLeadMerge(t *testing.T) {
	p, _, _, _, _, _ := newTestPipeline()
	p.fetcher = &stubFetcher{result: fetch.BatchResult{
		Succeeded: []core.Document{{URL: "https://a.example.com", Content: "body"}},
	}}
	p.summarizer = &stubSummarizer{result: sources.SummaryBatch{
		Succeeded: []core.SourceSummary{{SourceID: "s1", URL: "https://a.example.com", MainClaims: []string{"c"}, Relevance: "high"}},
	}}
	p.synthesizer = &stubSynthesizer{insights: []core.DistilledInsight{
		{Theme: "source theme", SynthesizedClaim: "qqqq wwww eeee", SupportingSources: []string{"s1"}, WhyItMatters: "w"},
		{Theme: "source theme 2", SynthesizedClaim: "rrrr tttt yyyy", SupportingSources: []string{"s1"}, WhyItMatters: "w"},
	}}

	result, err := p.Run(context.Background(), RunOptions{
		Transcript:       "raw transcript",
		SourceURLs:       []string{"https://a.example.com"},
		MaxInsights:      1,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian},
		VersionsPerAngle: 1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// MaxInsights=1 keeps only the head of the merged list, which must be
	// the transcript-derived insight.
	if len(result.Insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(result.Insights))
	}
	if result.Insights[0].Topic != "velocity" {
		t.Errorf("transcript insight should lead the merge, got topic %q", result.Insights[0].Topic)
	}
}

func TestRunAbortsOnPostGenerationFailure(t *testing.T) {
	p, _, _, posts, _, _ := newTestPipeline()
	posts.err = errors.New("provider down")

	_, err := p.Run(context.Background(), RunOptions{
		Transcript:       "raw transcript",
		MaxInsights:      1,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian},
		VersionsPerAngle: 1,
	})
	if err == nil {
		t.Fatal("expected run failure when post generation fails")
	}
}

func TestRunAbortsOnIntentFailure(t *testing.T) {
	p, _, _, _, _, intents := newTestPipeline()
	intents.err = errors.New("provider down")

	_, err := p.Run(context.Background(), RunOptions{
		Transcript:       "raw transcript",
		MaxInsights:      1,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian},
		VersionsPerAngle: 1,
	})
	if err == nil {
		t.Fatal("expected run failure when intent derivation fails")
	}
}

func TestRunGeneratesArticlesSequentiallyPerInsight(t *testing.T) {
	p, _, _, _, articles, intents := newTestPipeline()
	p.extractor = &stubExtractor{perChunk: map[int][]core.ExtractedInsight{
		0: {
			{Topic: "a", Claim: "aaaa bbbb cccc"},
			{Topic: "b", Claim: "xxxx yyyy zzzz"},
		},
	}}

	result, err := p.Run(context.Background(), RunOptions{
		Transcript:              "raw transcript",
		MaxInsights:             2,
		SelectedArticleAngles:   []core.ArticleAngle{core.ArticleAngleDeepDive},
		ArticleVersionsPerAngle: 1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if articles.runs != 2 {
		t.Errorf("expected one article batch per insight, got %d", articles.runs)
	}
	if result.TotalArticles != 2 {
		t.Errorf("expected 2 articles, got %d", result.TotalArticles)
	}
	if result.TotalPosts != 0 {
		t.Errorf("no post angles selected, got %d posts", result.TotalPosts)
	}
	if intents.calls != 2 {
		t.Errorf("expected one intent per article, got %d", intents.calls)
	}
}

func TestRunTruncatesToMaxInsights(t *testing.T) {
	p, _, _, posts, _, _ := newTestPipeline()
	p.extractor = &stubExtractor{perChunk: map[int][]core.ExtractedInsight{
		0: {
			{Topic: "a", Claim: "aaaa bbbb cccc"},
			{Topic: "b", Claim: "dddd eeee ffff"},
			{Topic: "c", Claim: "gggg hhhh iiii"},
		},
	}}

	result, err := p.Run(context.Background(), RunOptions{
		Transcript:       "raw transcript",
		MaxInsights:      2,
		SelectedAngles:   []core.PostAngle{core.AngleContrarian},
		VersionsPerAngle: 1,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Insights) != 2 {
		t.Errorf("expected truncation to 2 insights, got %d", len(result.Insights))
	}
	if posts.runs != 2 {
		t.Errorf("expected 2 post batches, got %d", posts.runs)
	}
}
