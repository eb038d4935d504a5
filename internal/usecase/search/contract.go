package search

import (
	"context"

	"github.com/kailas-cloud/kereso/internal/domain/candidate"
)

// CorpusReader fetches the most recent candidates of one collection,
// newest first.
type CorpusReader interface {
	Recent(ctx context.Context, kind candidate.Kind) ([]candidate.Candidate, error)
}
