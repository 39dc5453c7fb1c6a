package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
	<title>Quiet Compounding</title>
	<meta name="description" content="Why slow systems win.">
	<meta name="author" content="R. Osei">
	<meta property="og:site_name" content="The Ledger">
</head>
<body>
	<nav>Home | About | Subscribe</nav>
	<article>
		<h1>Quiet Compounding</h1>
		<p>Most teams optimize for visible wins while the real leverage accrues invisibly.</p>
		<p>The systems that compound are the ones nobody celebrates in standup.</p>
	</article>
	<footer>© 2026 The Ledger</footer>
</body>
</html>`

func newTestServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func TestFetchExtractsReadableContent(t *testing.T) {
	server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	})
	defer server.Close()

	fetcher := NewFetcher(nil, DefaultOptions())
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if doc.Title != "Quiet Compounding" {
		t.Errorf("Expected title 'Quiet Compounding', got %q", doc.Title)
	}
	if !strings.Contains(doc.Content, "real leverage accrues invisibly") {
		t.Errorf("Expected article body in content, got: %q", doc.Content)
	}
	if strings.Contains(doc.Content, "Subscribe") {
		t.Errorf("Navigation boilerplate leaked into content: %q", doc.Content)
	}
	if doc.Byline != "R. Osei" {
		t.Errorf("Expected byline 'R. Osei', got %q", doc.Byline)
	}
	if doc.SiteName != "The Ledger" {
		t.Errorf("Expected site name 'The Ledger', got %q", doc.SiteName)
	}
	if doc.Excerpt != "Why slow systems win." {
		t.Errorf("Expected meta description excerpt, got %q", doc.Excerpt)
	}
	if doc.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestFetchRejectsNonHTTPScheme(t *testing.T) {
	fetcher := NewFetcher(nil, DefaultOptions())

	_, err := fetcher.Fetch(context.Background(), "ftp://example.com/file")
	if err == nil {
		t.Fatal("Expected error for non-http scheme")
	}
}

func TestFetchUnsupportedContentType(t *testing.T) {
	server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	})
	defer server.Close()

	fetcher := NewFetcher(nil, DefaultOptions())
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var ctErr *UnsupportedContentTypeError
	if !errors.As(err, &ctErr) {
		t.Fatalf("Expected UnsupportedContentTypeError, got %T: %v", err, err)
	}
	if ctErr.ContentType != "application/pdf" {
		t.Errorf("Expected content type in error, got %q", ctErr.ContentType)
	}
}

func TestFetchTimeout(t *testing.T) {
	server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	})
	defer server.Close()

	opts := DefaultOptions()
	opts.Timeout = 20 * time.Millisecond
	fetcher := NewFetcher(nil, opts)

	_, err := fetcher.Fetch(context.Background(), server.URL)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Expected TimeoutError, got %T: %v", err, err)
	}
}

func TestFetchExtractionFailed(t *testing.T) {
	server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><head></head><body><script>void(0)</script></body></html>"))
	})
	defer server.Close()

	fetcher := NewFetcher(nil, DefaultOptions())
	_, err := fetcher.Fetch(context.Background(), server.URL)

	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("Expected ExtractionError, got %T: %v", err, err)
	}
}

func TestFetchTruncatesLongContent(t *testing.T) {
	longParagraph := strings.Repeat("Leverage compounds quietly over long horizons. ", 200)
	page := "<html><head><title>Long</title></head><body><article><p>" + longParagraph + "</p></article></body></html>"

	server := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	})
	defer server.Close()

	opts := DefaultOptions()
	opts.MaxContentLength = 500
	fetcher := NewFetcher(nil, opts)

	doc, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.HasSuffix(doc.Content, TruncationMarker) {
		t.Error("Expected truncation marker at end of content")
	}
	if len(doc.Content) > 500+len(TruncationMarker) {
		t.Errorf("Content exceeds limit: %d bytes", len(doc.Content))
	}
}

func TestFetchManyPartialFailure(t *testing.T) {
	okServer := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	})
	defer okServer.Close()

	slowServer := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	})
	defer slowServer.Close()

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond
	fetcher := NewFetcher(nil, opts)

	urls := []string{okServer.URL + "/a", slowServer.URL + "/slow", okServer.URL + "/b"}
	result := fetcher.FetchMany(context.Background(), urls)

	if len(result.Succeeded) != 2 {
		t.Errorf("Expected 2 successes, got %d", len(result.Succeeded))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Expected 1 failure, got %d", len(result.Failed))
	}
	if result.Failed[0].URL != slowServer.URL+"/slow" {
		t.Errorf("Expected the slow URL to fail, got %q", result.Failed[0].URL)
	}

	// Order follows input order, not completion order.
	if result.Succeeded[0].URL != okServer.URL+"/a" || result.Succeeded[1].URL != okServer.URL+"/b" {
		t.Errorf("Succeeded order does not follow input order: %q, %q",
			result.Succeeded[0].URL, result.Succeeded[1].URL)
	}
}
