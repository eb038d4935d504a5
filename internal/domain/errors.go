package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals search parameters that cannot be served.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCorpusUnavailable signals that candidate rows could not be fetched.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrNotConfigured signals a missing backend or provider.
	ErrNotConfigured = errors.New("not configured")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrLLMProviderError signals a topic suggestion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// CorpusError wraps ErrCorpusUnavailable with the collection that failed.
type CorpusError struct {
	Collection string
	Err        error
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCorpusUnavailable.Error(), e.Collection, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is.
func (e *CorpusError) Unwrap() []error { return []error{ErrCorpusUnavailable, e.Err} }

// NewCorpusError creates a corpus fetch error for collection.
func NewCorpusError(collection string, err error) error {
	return &CorpusError{Collection: collection, Err: err}
}
