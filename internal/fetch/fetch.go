// Package fetch retrieves remote documents and extracts their readable main
// content.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"repurpose/internal/core"
	"repurpose/internal/logger"
)

// TruncationMarker is appended when a document body exceeds the configured
// content length.
const TruncationMarker = "\n\n[content truncated]"

// Options configures a Fetcher.
type Options struct {
	Timeout          time.Duration // Per-request deadline; the request is aborted when it elapses
	MaxContentLength int           // Extracted content beyond this many bytes is truncated
	UserAgent        string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:          20 * time.Second,
		MaxContentLength: 60000,
		UserAgent:        "repurpose/1.0 (+content pipeline)",
	}
}

// Fetcher retrieves HTML documents over HTTP(S) and isolates their readable
// content via a pluggable extractor.
type Fetcher struct {
	httpClient *http.Client
	extractor  ReadabilityExtractor
	options    Options
	log        *slog.Logger
}

// NewFetcher creates a fetcher with the given extractor. A nil extractor
// falls back to the goquery-based one.
func NewFetcher(extractor ReadabilityExtractor, options Options) *Fetcher {
	if extractor == nil {
		extractor = NewReadabilityExtractor()
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultOptions().Timeout
	}
	if options.MaxContentLength <= 0 {
		options.MaxContentLength = DefaultOptions().MaxContentLength
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: options.Timeout},
		extractor:  extractor,
		options:    options,
		log:        logger.Get(),
	}
}

// Fetch retrieves one URL and returns its readable content. It fails with
// *TimeoutError when the configured timeout elapses, *UnsupportedContentTypeError
// when the response is not HTML, and *ExtractionError when no readable main
// content can be isolated.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*core.Document, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q for %s", parsed.Scheme, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.options.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	if f.options.UserAgent != "" {
		req.Header.Set("User-Agent", f.options.UserAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: rawURL, Timeout: f.options.Timeout}
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status code %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, &UnsupportedContentTypeError{URL: rawURL, ContentType: contentType}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: rawURL, Timeout: f.options.Timeout}
		}
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}

	extracted, err := f.extractor.Extract(string(body))
	if err != nil {
		return nil, &ExtractionError{URL: rawURL, Err: err}
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return nil, &ExtractionError{URL: rawURL, Err: fmt.Errorf("no readable main content found")}
	}

	content := extracted.Text
	if len(content) > f.options.MaxContentLength {
		content = content[:f.options.MaxContentLength] + TruncationMarker
	}

	return &core.Document{
		URL:       rawURL,
		Title:     extracted.Title,
		Content:   content,
		Excerpt:   extracted.Excerpt,
		Byline:    extracted.Byline,
		SiteName:  extracted.SiteName,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// BatchResult partitions a concurrent fetch into successes and per-URL
// failures. One failing URL never aborts its siblings.
type BatchResult struct {
	Succeeded []core.Document
	Failed    []core.SourceError
}

// FetchMany fetches all URLs concurrently with a join-all, collect-errors
// policy. Result order follows the input order, not completion order.
func (f *Fetcher) FetchMany(ctx context.Context, urls []string) BatchResult {
	type outcome struct {
		doc *core.Document
		err error
	}

	outcomes := make([]outcome, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			doc, err := f.Fetch(ctx, u)
			outcomes[i] = outcome{doc: doc, err: err}
		}(i, u)
	}
	wg.Wait()

	var result BatchResult
	for i, o := range outcomes {
		if o.err != nil {
			f.log.Warn("Source fetch failed", "url", urls[i], "error", o.err.Error())
			result.Failed = append(result.Failed, core.SourceError{URL: urls[i], Error: o.err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, *o.doc)
	}
	return result
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
