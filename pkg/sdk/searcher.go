package kereso

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/kereso/internal/domain/candidate"
	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
	"github.com/kailas-cloud/kereso/internal/textmatch"
	searchuc "github.com/kailas-cloud/kereso/internal/usecase/search"
)

// Searcher ranks caller-supplied rows. Safe for concurrent use.
type Searcher struct {
	engine *textmatch.Engine
	links  searchuc.Links
	obs    *observer
}

// New creates a Searcher. It fails only on invalid rules or metric
// registration conflicts.
func New(opts ...Option) (*Searcher, error) {
	cfg := &searcherConfig{
		editDistance:  true,
		postPrefix:    "/blog",
		productPrefix: "/termek",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	rules := textmatch.DefaultRules()
	switch {
	case cfg.rulesPath != "":
		r, err := textmatch.LoadRules(cfg.rulesPath)
		if err != nil {
			return nil, fmt.Errorf("kereso: %w", err)
		}
		rules = r
	case cfg.rulesYAML != nil:
		r, err := textmatch.ParseRules(cfg.rulesYAML)
		if err != nil {
			return nil, fmt.Errorf("kereso: %w", err)
		}
		rules = r
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Searcher{
		engine: textmatch.NewEngine(rules, textmatch.WithEditDistance(cfg.editDistance)),
		links: searchuc.Links{
			BaseURL:       cfg.baseURL,
			PostPrefix:    cfg.postPrefix,
			ProductPrefix: cfg.productPrefix,
		},
		obs: obs,
	}, nil
}

// Search ranks posts and products for query and returns at most limit hits
// per collection (limit is clamped to 1..10, non-positive selects 5).
// Either slice may be nil to search one collection only.
func (s *Searcher) Search(
	ctx context.Context,
	query string,
	posts, products []Record,
	limit int,
) (res Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe(query, start, &res, err) }()

	sc := scope.All
	switch {
	case posts == nil && products != nil:
		sc = scope.Products
	case products == nil && posts != nil:
		sc = scope.Posts
	}

	req, err := request.New(query, sc, limit)
	if err != nil {
		return Result{}, fmt.Errorf("kereso: %w", err)
	}

	corpus := recordCorpus{
		candidate.Post:    toCandidates(candidate.Post, posts, candidate.DefaultPostFields()),
		candidate.Product: toCandidates(candidate.Product, products, candidate.DefaultProductFields()),
	}
	resp, err := searchuc.New(corpus, s.engine, s.links).Search(ctx, &req)
	if err != nil {
		return Result{}, fmt.Errorf("kereso: search: %w", err)
	}
	return fromResponse(&resp, req.Limit()), nil
}

// Matches reports whether text would be admitted as a hit for query.
func (s *Searcher) Matches(query, text string) bool {
	q := s.engine.Prepare(query)
	if q.IsEmpty() {
		return false
	}
	_, _, ok := s.engine.Evaluate("", text, q)
	return ok
}

// recordCorpus serves pre-built candidates to the search service.
type recordCorpus map[candidate.Kind][]candidate.Candidate

func (c recordCorpus) Recent(_ context.Context, kind candidate.Kind) ([]candidate.Candidate, error) {
	return c[kind], nil
}

func toCandidates(kind candidate.Kind, recs []Record, fs candidate.FieldSet) []candidate.Candidate {
	out := make([]candidate.Candidate, len(recs))
	for i, rec := range recs {
		out[i] = candidate.FromRecord(kind, rec, fs)
	}
	return out
}

func fromResponse(resp *result.Response, limit int) Result {
	return Result{
		Query:     resp.Query,
		UsedQuery: resp.UsedQuery,
		Cluster:   resp.Cluster,
		Articles:  toHits(resp.Articles),
		Products:  toHits(resp.Products),
		Hits:      toHits(resp.Merged(limit)),
	}
}

func toHits(in []result.Hit) []Hit {
	out := make([]Hit, len(in))
	for i := range in {
		out[i] = Hit{
			ID:      in[i].ID(),
			Type:    HitType(in[i].Kind()),
			Title:   in[i].Title(),
			URL:     in[i].URL(),
			Excerpt: in[i].Excerpt(),
			Snippet: in[i].Snippet(),
			Score:   in[i].Score(),
		}
	}
	return out
}
