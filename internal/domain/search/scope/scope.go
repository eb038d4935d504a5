package scope

import "github.com/kailas-cloud/kereso/internal/domain/candidate"

// Scope selects which collections a search covers. Values follow the
// site's query string (?type=).
type Scope string

// Search scope constants.
const (
	All      Scope = "minden"
	Products Scope = "termek"
	Posts    Scope = "cikk"
)

// IsValid checks if the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == All || s == Products || s == Posts
}

// Parse maps a query string value to a Scope. Unknown and empty values
// select All.
func Parse(v string) Scope {
	if s := Scope(v); s.IsValid() {
		return s
	}
	return All
}

// Kinds returns the candidate kinds searched under s, articles first.
func (s Scope) Kinds() []candidate.Kind {
	switch s {
	case Posts:
		return []candidate.Kind{candidate.Post}
	case Products:
		return []candidate.Kind{candidate.Product}
	default:
		return []candidate.Kind{candidate.Post, candidate.Product}
	}
}

// Includes reports whether kind k is searched under s.
func (s Scope) Includes(k candidate.Kind) bool {
	for _, kind := range s.Kinds() {
		if kind == k {
			return true
		}
	}
	return false
}
