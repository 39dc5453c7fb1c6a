package fetch

import (
	"fmt"
	"time"
)

// TimeoutError reports a fetch aborted because the configured timeout elapsed.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch of %s timed out after %s", e.URL, e.Timeout)
}

// UnsupportedContentTypeError reports a response that was not HTML.
type UnsupportedContentTypeError struct {
	URL         string
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("unsupported content type %q from %s", e.ContentType, e.URL)
}

// ExtractionError reports markup from which no readable main content could
// be isolated.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract readable content from %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
