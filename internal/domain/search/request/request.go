package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
)

// Search parameter limits.
const (
	// MaxQueryLength is the longest query kept, in runes. Longer input is cut.
	MaxQueryLength = 200
	DefaultLimit   = 5
	MaxLimit       = 10
	// PageLimit is the fixed result count of the server-rendered search page.
	PageLimit = 5
)

// Request is a validated search query.
type Request struct {
	query string
	scope scope.Scope
	limit int
}

// New validates and normalizes search parameters.
// Defaults: scope=minden, limit=5. Limit is clamped to 1..10.
// An empty query is valid and yields an empty response.
func New(query string, s scope.Scope, limit int) (Request, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		query = strings.TrimSpace(string([]rune(query)[:MaxQueryLength]))
	}
	if s == "" {
		s = scope.All
	}
	if !s.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid scope %q", domain.ErrInvalidQuery, s)
	}
	return Request{query: query, scope: s, limit: ClampLimit(limit)}, nil
}

// ClampLimit maps a requested result count into 1..MaxLimit,
// with non-positive values selecting DefaultLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// Scope returns the searched collections.
func (r *Request) Scope() scope.Scope { return r.scope }

// Limit returns the maximum hits per collection.
func (r *Request) Limit() int { return r.limit }
