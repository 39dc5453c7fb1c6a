package llm

import (
	"errors"
	"fmt"
)

// ProviderError reports a failed provider call: network, auth, or rate limit.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SchemaError reports a provider response that could not be parsed into the
// requested output shape. Schema violations are never retried.
type SchemaError struct {
	Provider string
	Reason   string
	Raw      string // Cleaned response payload, kept for diagnostics
	Err      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("provider %s schema violation: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err is a response-contract violation.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsProviderError reports whether err is a failed provider call.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
