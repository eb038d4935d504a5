package topics

import (
	"context"

	"github.com/kailas-cloud/kereso/internal/domain/candidate"
)

// CorpusReader fetches the most recent candidates of one collection.
type CorpusReader interface {
	Recent(ctx context.Context, kind candidate.Kind) ([]candidate.Candidate, error)
}

// Suggester proposes new article topics related to a seed phrase.
type Suggester interface {
	Suggest(ctx context.Context, seed string, n int) ([]string, error)
}
