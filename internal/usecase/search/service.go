package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/kereso/internal/domain/candidate"
	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
	"github.com/kailas-cloud/kereso/internal/logger"
	"github.com/kailas-cloud/kereso/internal/metrics"
	"github.com/kailas-cloud/kereso/internal/textmatch"
)

// Output text bounds, in runes.
const (
	ExcerptRunes = 160
	SnippetRunes = 280
)

// Service ranks the site corpus against free-text queries.
type Service struct {
	corpus CorpusReader
	engine *textmatch.Engine
	links  Links
}

// New creates a search service. A nil engine selects the default rules.
func New(corpus CorpusReader, engine *textmatch.Engine, links Links) *Service {
	if engine == nil {
		engine = textmatch.NewEngine(nil)
	}
	return &Service{corpus: corpus, engine: engine, links: links}
}

// Engine returns the matching engine the service ranks with.
func (s *Service) Engine() *textmatch.Engine { return s.engine }

// Search ranks articles and products for the request. When the query finds
// nothing in any searched collection, the fallback queries are tried in
// order and the first one with a hit is reported as UsedQuery.
// An empty query returns an empty response without touching the corpus.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	resp := result.Response{
		Query:     req.Query(),
		UsedQuery: req.Query(),
		Articles:  []result.Hit{},
		Products:  []result.Hit{},
	}
	scopeLabel := string(req.Scope())

	q := s.engine.Prepare(req.Query())
	if q.IsEmpty() {
		metrics.SearchRequestsTotal.WithLabelValues(scopeLabel, metrics.OutcomeEmpty).Inc()
		return resp, nil
	}

	corpus, err := s.fetch(ctx, req.Scope().Kinds())
	if err != nil {
		return result.Response{}, err
	}

	log := logger.FromContext(ctx)

	resp.Articles, resp.Products = s.rankAll(corpus, req.Scope(), q, req.Limit())
	if resp.Total() > 0 {
		metrics.SearchRequestsTotal.WithLabelValues(scopeLabel, metrics.OutcomePrimary).Inc()
		return resp, nil
	}

	cluster, queries := s.engine.Rules().FallbackPlan(req.Query())
	for _, alt := range queries {
		aq := s.engine.Prepare(alt)
		articles, products := s.rankAll(corpus, req.Scope(), aq, req.Limit())
		if len(articles)+len(products) == 0 {
			log.Debug("fallback query found nothing",
				zap.String("cluster", cluster), zap.String("query", alt))
			continue
		}
		log.Debug("fallback query matched",
			zap.String("cluster", cluster), zap.String("query", alt),
			zap.Int("hits", len(articles)+len(products)))
		metrics.SearchFallbackTotal.WithLabelValues(cluster).Inc()
		metrics.SearchRequestsTotal.WithLabelValues(scopeLabel, metrics.OutcomeFallback).Inc()

		resp.UsedQuery = alt
		resp.Cluster = cluster
		resp.Articles, resp.Products = articles, products
		return resp, nil
	}

	metrics.SearchRequestsTotal.WithLabelValues(scopeLabel, metrics.OutcomeEmpty).Inc()
	return resp, nil
}

// fetch loads every requested collection in parallel.
func (s *Service) fetch(ctx context.Context, kinds []candidate.Kind) (map[candidate.Kind][]candidate.Candidate, error) {
	rows := make([][]candidate.Candidate, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			cs, err := s.corpus.Recent(gctx, kind)
			if err != nil {
				metrics.SearchCorpusErrorsTotal.WithLabelValues(string(kind)).Inc()
				logger.FromContext(ctx).Warn("corpus fetch failed",
					zap.String("kind", string(kind)), zap.Error(err))
				return fmt.Errorf("fetch %s: %w", kind, err)
			}
			rows[i] = cs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped inside the group
	}

	out := make(map[candidate.Kind][]candidate.Candidate, len(kinds))
	for i, kind := range kinds {
		out[kind] = rows[i]
	}
	return out, nil
}

// rankAll ranks the collections searched under sc. Kinds outside sc stay
// empty even when the corpus holds rows for them.
func (s *Service) rankAll(
	corpus map[candidate.Kind][]candidate.Candidate, sc scope.Scope, q textmatch.Query, limit int,
) (articles, products []result.Hit) {
	articles, products = []result.Hit{}, []result.Hit{}
	if sc.Includes(candidate.Post) {
		articles = s.rank(corpus[candidate.Post], candidate.Post, q, limit)
	}
	if sc.Includes(candidate.Product) {
		products = s.rank(corpus[candidate.Product], candidate.Product, q, limit)
	}
	return articles, products
}

func (s *Service) rank(cs []candidate.Candidate, kind candidate.Kind, q textmatch.Query, limit int) []result.Hit {
	if len(cs) == 0 {
		return []result.Hit{}
	}
	start := time.Now()
	ranked := textmatch.Rank(s.engine, cs, q, limit)
	metrics.SearchRankDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.SearchCandidatesScanned.WithLabelValues(string(kind)).Add(float64(len(cs)))

	hits := make([]result.Hit, 0, len(ranked))
	for _, r := range ranked {
		hits = append(hits, s.shape(r, q))
	}
	return hits
}

func (s *Service) shape(r textmatch.MatchResult[candidate.Candidate], q textmatch.Query) result.Hit {
	c := r.Candidate
	snippet := s.engine.Snippet(c.Haystack(), q, SnippetRunes)
	excerpt := c.Excerpt()
	if excerpt == "" {
		excerpt = snippet
	}
	return result.New(
		c.ID(), c.Kind(), c.Title(),
		s.links.URL(c.Kind(), c.Slug(), c.ID()),
		textmatch.Excerpt(excerpt, ExcerptRunes),
		snippet,
		r.Total(),
	)
}
