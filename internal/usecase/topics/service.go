package topics

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/candidate"
	"github.com/kailas-cloud/kereso/internal/logger"
	"github.com/kailas-cloud/kereso/internal/textmatch"
)

// Topic request bounds.
const (
	MaxCandidates   = 50
	DefaultDiscover = 5
	MaxDiscover     = 20
)

// Verdict tells whether a proposed topic is already covered.
type Verdict struct {
	Topic     string
	Duplicate bool
	// MatchID is empty when the topic collides with another one in the same batch.
	MatchID    string
	MatchTitle string
	Score      int
}

// Service filters proposed topics against the published articles.
type Service struct {
	corpus    CorpusReader
	engine    *textmatch.Engine
	suggester Suggester
}

// New creates a topic service. suggester can be nil; Discover then fails
// with domain.ErrNotConfigured.
func New(corpus CorpusReader, engine *textmatch.Engine, suggester Suggester) *Service {
	if engine == nil {
		engine = textmatch.NewEngine(nil)
	}
	return &Service{corpus: corpus, engine: engine, suggester: suggester}
}

// Dedupe returns one verdict per non-blank topic, in input order. A topic is
// a duplicate when an existing article ranks for it, or when an earlier
// topic of the same batch matches it.
func (s *Service) Dedupe(ctx context.Context, topics []string) ([]Verdict, error) {
	if len(topics) > MaxCandidates {
		return nil, fmt.Errorf("%w: at most %d topics per request", domain.ErrInvalidQuery, MaxCandidates)
	}

	posts, err := s.corpus.Recent(ctx, candidate.Post)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	verdicts := make([]Verdict, 0, len(topics))
	var accepted []candidate.Candidate
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		q := s.engine.Prepare(topic)
		v := Verdict{Topic: topic}

		if best := textmatch.Rank(s.engine, posts, q, 1); len(best) > 0 {
			v.Duplicate = true
			v.MatchID = best[0].Candidate.ID()
			v.MatchTitle = best[0].Candidate.Title()
			v.Score = best[0].Total()
		} else if best := textmatch.Rank(s.engine, accepted, q, 1); len(best) > 0 {
			v.Duplicate = true
			v.MatchTitle = best[0].Candidate.Title()
			v.Score = best[0].Total()
		} else {
			accepted = append(accepted, candidate.New("", candidate.Post, topic, "", ""))
		}
		verdicts = append(verdicts, v)
	}

	logger.FromContext(ctx).Debug("topics deduplicated",
		zap.Int("proposed", len(verdicts)), zap.Int("fresh", len(accepted)))
	return verdicts, nil
}

// Discover asks the suggester for n topics around seed and dedupes them.
func (s *Service) Discover(ctx context.Context, seed string, n int) ([]Verdict, error) {
	if s.suggester == nil {
		return nil, fmt.Errorf("%w: topic suggester", domain.ErrNotConfigured)
	}
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, fmt.Errorf("%w: seed is required", domain.ErrInvalidQuery)
	}
	if n <= 0 {
		n = DefaultDiscover
	}
	if n > MaxDiscover {
		n = MaxDiscover
	}

	proposed, err := s.suggester.Suggest(ctx, seed, n)
	if err != nil {
		return nil, fmt.Errorf("suggest topics: %w", err)
	}
	if len(proposed) > n {
		proposed = proposed[:n]
	}
	return s.Dedupe(ctx, proposed)
}
