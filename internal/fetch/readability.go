package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractedContent is the readable main content isolated from a page.
type ExtractedContent struct {
	Title    string
	Text     string
	Excerpt  string
	Byline   string
	SiteName string
}

// ReadabilityExtractor isolates the readable main content of an HTML
// document. Extraction accuracy is inherently heuristic, so the interface is
// kept independently mockable and tested against fixture documents.
type ReadabilityExtractor interface {
	Extract(html string) (*ExtractedContent, error)
}

// goqueryExtractor implements ReadabilityExtractor with selector heuristics.
type goqueryExtractor struct{}

// NewReadabilityExtractor returns the default goquery-based extractor.
func NewReadabilityExtractor() ReadabilityExtractor {
	return &goqueryExtractor{}
}

// mainContentSelectors are tried in order; the first selection yielding text
// wins.
var mainContentSelectors = []string{
	"article", "main", ".main-content", ".entry-content", ".post-content",
	".post-body", ".article-body",
	"[role='main']",
	".content", "#content",
}

var multiNewlineRegex = regexp.MustCompile(`(\n\s*){2,}`)

func (g *goqueryExtractor) Extract(html string) (*ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Remove common non-content elements before extracting text.
	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript, .sidebar, #sidebar, .ad, .advertisement, .popup, .modal, .cookie-banner").Remove()

	var textBuilder strings.Builder
	collect := func(s *goquery.Selection) {
		s.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre").Each(func(_ int, item *goquery.Selection) {
			text := strings.TrimSpace(item.Text())
			if text == "" {
				return
			}
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n\n")
		})
	}

	for _, selector := range mainContentSelectors {
		doc.Find(selector).First().Each(func(_ int, s *goquery.Selection) {
			collect(s)
		})
		if textBuilder.Len() > 0 {
			break
		}
	}

	// No recognized main-content container; fall back to the whole body.
	if textBuilder.Len() == 0 {
		doc.Find("body").Each(func(_ int, s *goquery.Selection) {
			collect(s)
		})
	}

	text := strings.TrimSpace(multiNewlineRegex.ReplaceAllString(textBuilder.String(), "\n\n"))

	return &ExtractedContent{
		Title:    extractTitle(doc),
		Text:     text,
		Excerpt:  extractExcerpt(doc, text),
		Byline:   extractMeta(doc, "meta[name='author']", "meta[property='article:author']"),
		SiteName: extractMeta(doc, "meta[property='og:site_name']"),
	}, nil
}

// extractTitle tries the title tag, then OpenGraph, then the first h1.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("head title").First().Text()); title != "" {
		return title
	}
	if ogTitle, _ := doc.Find("meta[property='og:title']").Attr("content"); ogTitle != "" {
		return strings.TrimSpace(ogTitle)
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractExcerpt(doc *goquery.Document, text string) string {
	if desc, _ := doc.Find("meta[name='description']").Attr("content"); desc != "" {
		return strings.TrimSpace(desc)
	}
	if ogDesc, _ := doc.Find("meta[property='og:description']").Attr("content"); ogDesc != "" {
		return strings.TrimSpace(ogDesc)
	}
	// Fallback to the first sentence-ish slice of the body text.
	if len(text) > 200 {
		return strings.TrimSpace(text[:200]) + "..."
	}
	return text
}

func extractMeta(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if value, _ := doc.Find(selector).Attr("content"); value != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
