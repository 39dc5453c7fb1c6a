package writer

import (
	"context"
	"fmt"

	"repurpose/internal/core"
	"repurpose/internal/logger"

	"golang.org/x/sync/errgroup"
)

// PostBatch is the result of one fan-out over angles and versions for a
// single insight.
type PostBatch struct {
	Posts           []core.Post
	AnglesGenerated []core.PostAngle
	TotalPosts      int
}

// ArticleBatch is the article counterpart of PostBatch.
type ArticleBatch struct {
	Articles        []core.Article
	AnglesGenerated []core.ArticleAngle
	TotalArticles   int
}

// PostSupervisor fans post generation out across angles and versions. All
// invocations for one insight run concurrently, and any single failure fails
// the whole batch.
type PostSupervisor struct {
	writer *Writer
}

// NewPostSupervisor creates a supervisor over the given writer.
func NewPostSupervisor(writer *Writer) *PostSupervisor {
	return &PostSupervisor{writer: writer}
}

// Run generates versionsPerAngle posts for each selected angle. It returns
// exactly len(selectedAngles) x versionsPerAngle posts ordered by angle
// enumeration order, then version number 1..versionsPerAngle within each
// angle, regardless of completion order.
func (s *PostSupervisor) Run(ctx context.Context, insight core.ExtractedInsight, selectedAngles []core.PostAngle, versionsPerAngle int) (PostBatch, error) {
	log := logger.Get()

	if len(selectedAngles) == 0 {
		return PostBatch{}, fmt.Errorf("no post angles selected")
	}
	if versionsPerAngle < 1 {
		return PostBatch{}, fmt.Errorf("versions per angle must be at least 1, got %d", versionsPerAngle)
	}

	angles := orderedAngles(selectedAngles)
	posts := make([]core.Post, len(angles)*versionsPerAngle)

	g, ctx := errgroup.WithContext(ctx)
	for ai, angle := range angles {
		for v := 1; v <= versionsPerAngle; v++ {
			idx := ai*versionsPerAngle + (v - 1)
			angle, v := angle, v
			g.Go(func() error {
				post, err := s.writer.WritePost(ctx, insight, angle, v)
				if err != nil {
					return err
				}
				posts[idx] = post
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return PostBatch{}, fmt.Errorf("post generation failed: %w", err)
	}

	log.Debug("Post batch complete",
		"angles", len(angles),
		"versions_per_angle", versionsPerAngle,
		"total", len(posts))

	return PostBatch{
		Posts:           posts,
		AnglesGenerated: angles,
		TotalPosts:      len(posts),
	}, nil
}

// orderedAngles filters the canonical enumeration down to the selected set,
// so output order never depends on the caller's ordering.
func orderedAngles(selected []core.PostAngle) []core.PostAngle {
	want := make(map[core.PostAngle]bool, len(selected))
	for _, a := range selected {
		want[a] = true
	}
	ordered := make([]core.PostAngle, 0, len(selected))
	for _, a := range core.AllPostAngles {
		if want[a] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// ArticleSupervisor generates articles one at a time. Long-form generation
// is slow and rate-limit prone, so angles and versions run sequentially
// rather than fanning out like posts.
type ArticleSupervisor struct {
	writer *Writer
}

// NewArticleSupervisor creates a supervisor over the given writer.
func NewArticleSupervisor(writer *Writer) *ArticleSupervisor {
	return &ArticleSupervisor{writer: writer}
}

// Run generates versionsPerAngle articles for each selected angle,
// sequentially in angle enumeration order. The first failure aborts the
// batch.
func (s *ArticleSupervisor) Run(ctx context.Context, insight core.ExtractedInsight, selectedAngles []core.ArticleAngle, versionsPerAngle int) (ArticleBatch, error) {
	log := logger.Get()

	if len(selectedAngles) == 0 {
		return ArticleBatch{}, fmt.Errorf("no article angles selected")
	}
	if versionsPerAngle < 1 {
		return ArticleBatch{}, fmt.Errorf("versions per angle must be at least 1, got %d", versionsPerAngle)
	}

	angles := orderedArticleAngles(selectedAngles)
	articles := make([]core.Article, 0, len(angles)*versionsPerAngle)

	for _, angle := range angles {
		for v := 1; v <= versionsPerAngle; v++ {
			article, err := s.writer.WriteArticle(ctx, insight, angle, v)
			if err != nil {
				return ArticleBatch{}, fmt.Errorf("article generation failed: %w", err)
			}
			articles = append(articles, article)
		}
	}

	log.Debug("Article batch complete",
		"angles", len(angles),
		"versions_per_angle", versionsPerAngle,
		"total", len(articles))

	return ArticleBatch{
		Articles:        articles,
		AnglesGenerated: angles,
		TotalArticles:   len(articles),
	}, nil
}

func orderedArticleAngles(selected []core.ArticleAngle) []core.ArticleAngle {
	want := make(map[core.ArticleAngle]bool, len(selected))
	for _, a := range selected {
		want[a] = true
	}
	ordered := make([]core.ArticleAngle, 0, len(selected))
	for _, a := range core.AllArticleAngles {
		if want[a] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}
