// Package textmatch is the fuzzy Hungarian free-text matcher: normalization,
// tokenization, heuristic stemming with synonyms, per-variant matching,
// scoring, ranking and the fallback query table.
//
// Everything here is pure and allocation-local; an Engine may be shared by
// any number of goroutines.
package textmatch

import (
	"slices"
	"strings"
)

// Scoring weights.
const (
	exactTokenPoints   = 3
	variantTokenPoints = 2
	phraseBonus        = 2
	// TitleBonus is added when the title contains the whole query.
	TitleBonus = 5
)

// Query is a user query prepared once per search.
type Query struct {
	Raw        string
	Normalized string
	Tokens     []string
	// Variants[i] holds the expanded forms of Tokens[i].
	Variants [][]string
}

// IsEmpty reports whether the query has nothing to match on.
func (q Query) IsEmpty() bool { return q.Normalized == "" }

// MinScore is the admission threshold for the query.
func (q Query) MinScore() int {
	if len(q.Tokens) >= 2 {
		return 3
	}
	return 1
}

// Candidate is anything with a title and a haystack.
type Candidate interface {
	Title() string
	Haystack() string
}

// MatchResult pairs a candidate with its relevance.
type MatchResult[C Candidate] struct {
	Candidate  C
	Score      int
	TitleBonus int
	IsMatch    bool
}

// Total is the ranking key.
func (r MatchResult[C]) Total() int { return r.Score + r.TitleBonus }

// Engine runs queries against haystacks under one rule set.
type Engine struct {
	rules    *Rules
	expander Expander
	matcher  Matcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithExpander replaces the default suffix expander.
func WithExpander(x Expander) Option {
	return func(e *Engine) {
		if x != nil {
			e.expander = x
		}
	}
}

// WithEditDistance toggles the bounded edit-distance fallback of the matcher.
func WithEditDistance(on bool) Option {
	return func(e *Engine) { e.matcher.EditDistance = on }
}

// NewEngine creates an engine. A nil rules value selects DefaultRules.
// Edit distance is enabled unless turned off with WithEditDistance(false).
func NewEngine(rules *Rules, opts ...Option) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	e := &Engine{
		rules:   rules,
		matcher: Matcher{EditDistance: true},
	}
	for _, o := range opts {
		o(e)
	}
	if e.expander == nil {
		e.expander = NewSuffixExpander(rules)
	}
	return e
}

// Rules returns the rule set the engine was built with.
func (e *Engine) Rules() *Rules { return e.rules }

// Expander returns the active expander.
func (e *Engine) Expander() Expander { return e.expander }

// Prepare normalizes, tokenizes and expands raw.
func (e *Engine) Prepare(raw string) Query {
	q := Query{
		Raw:        raw,
		Normalized: Normalize(raw),
		Tokens:     e.rules.Tokenize(raw),
	}
	q.Variants = make([][]string, len(q.Tokens))
	for i, t := range q.Tokens {
		vs := e.expander.Variants(t)
		if !slices.Contains(vs, t) {
			vs = append([]string{t}, vs...)
		}
		q.Variants[i] = vs
	}
	return q
}

// Score computes the relevance of h for q.
func (e *Engine) Score(h Haystack, q Query) int {
	if len(q.Tokens) == 0 {
		if strings.Contains(h.text, q.Normalized) {
			return 1
		}
		return 0
	}

	score := 0
	for i, tok := range q.Tokens {
		switch {
		case e.matcher.matchNormalized(h, tok):
			score += exactTokenPoints
		case e.anyVariant(h, q.Variants[i]):
			score += variantTokenPoints
		}
	}
	if strings.Contains(h.text, q.Normalized) {
		score += phraseBonus
	}
	return score
}

// MatchesQuery is the admission filter: single-token queries need one token
// hit, longer queries need at least two distinct token hits.
func (e *Engine) MatchesQuery(h Haystack, q Query) bool {
	if len(q.Tokens) == 0 {
		return strings.Contains(h.text, q.Normalized)
	}
	need := min(2, len(q.Tokens))
	hits := 0
	for i := range q.Tokens {
		if e.anyVariant(h, q.Variants[i]) {
			hits++
			if hits >= need {
				return true
			}
		}
	}
	return false
}

// Evaluate scores one title/haystack pair and applies the admission rules.
func (e *Engine) Evaluate(title, haystack string, q Query) (score, bonus int, ok bool) {
	h := NewHaystack(haystack)
	score = e.Score(h, q)
	if q.Normalized != "" && strings.Contains(Normalize(title), q.Normalized) {
		bonus = TitleBonus
	}
	ok = score >= q.MinScore() && e.MatchesQuery(h, q)
	return score, bonus, ok
}

func (e *Engine) anyVariant(h Haystack, variants []string) bool {
	for _, v := range variants {
		if e.matcher.matchNormalized(h, v) {
			return true
		}
	}
	return false
}

// Rank scores every candidate, keeps the admitted ones, orders them by
// score plus title bonus (stable, so input order breaks ties) and truncates
// to limit. A limit <= 0 keeps everything admitted.
func Rank[C Candidate](e *Engine, candidates []C, q Query, limit int) []MatchResult[C] {
	if q.IsEmpty() {
		return nil
	}
	out := make([]MatchResult[C], 0)
	for _, c := range candidates {
		score, bonus, ok := e.Evaluate(c.Title(), c.Haystack(), q)
		if !ok {
			continue
		}
		out = append(out, MatchResult[C]{Candidate: c, Score: score, TitleBonus: bonus, IsMatch: true})
	}
	slices.SortStableFunc(out, func(a, b MatchResult[C]) int {
		return b.Total() - a.Total()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
