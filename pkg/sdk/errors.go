package kereso

import (
	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/textmatch"
)

// Sentinel errors re-exported from the internal packages.
// Use errors.Is() to check.
var (
	ErrInvalidQuery = domain.ErrInvalidQuery
	ErrInvalidRules = textmatch.ErrInvalidRules
)
