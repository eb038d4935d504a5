package textmatch

import (
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Expander turns one query token into the set of forms worth matching.
// The returned slice always contains the normalized token itself (when it is
// long enough) and must not be modified by callers.
type Expander interface {
	Variants(token string) []string
}

// SuffixExpander is the heuristic stemmer: suffix stripping, trailing vowel
// and loose variants, plus one level of synonyms.
type SuffixExpander struct {
	rules *Rules
}

var _ Expander = (*SuffixExpander)(nil)

// NewSuffixExpander creates an expander over the given rules.
func NewSuffixExpander(rules *Rules) *SuffixExpander {
	return &SuffixExpander{rules: rules}
}

// Variants implements Expander.
func (x *SuffixExpander) Variants(token string) []string {
	word := Normalize(token)
	if word == "" {
		return nil
	}

	set := newOrderedSet()
	x.addStems(set, word)

	// Synonyms are looked up for the token and each of its stems,
	// but synonyms of synonyms are not followed.
	for _, v := range set.snapshot() {
		for _, syn := range x.rules.Synonyms(v) {
			x.addStems(set, syn)
		}
	}

	return set.atLeast(x.rules.MinTokenLength())
}

func (x *SuffixExpander) addStems(set *orderedSet, word string) {
	local := newOrderedSet()
	local.add(word)

	for _, suf := range x.rules.Suffixes() {
		if stem, ok := stripSuffix(word, suf); ok {
			local.add(stem)
		}
	}

	for _, v := range local.snapshot() {
		if runeLen(v) > 4 && (strings.HasSuffix(v, "e") || strings.HasSuffix(v, "a")) {
			local.add(v[:len(v)-1])
		}
	}

	for _, v := range local.snapshot() {
		if runeLen(v) >= 6 {
			local.add(dropLastRune(v))
		}
	}

	set.addAll(local)
}

// stripSuffix removes suf from word when the remaining stem is at least two
// runes longer than the suffix.
func stripSuffix(word, suf string) (string, bool) {
	if !strings.HasSuffix(word, suf) {
		return "", false
	}
	stem := word[:len(word)-len(suf)]
	if runeLen(stem) < runeLen(suf)+2 {
		return "", false
	}
	return stem, true
}

// ExpandAll returns the union of the variants of every token, in first-seen order.
func ExpandAll(x Expander, tokens []string) []string {
	set := newOrderedSet()
	for _, t := range tokens {
		for _, v := range x.Variants(t) {
			set.add(v)
		}
	}
	return set.snapshot()
}

// CachedExpander memoizes another expander in a bounded LRU.
type CachedExpander struct {
	inner Expander
	cache *lru.Cache[string, []string]
}

var _ Expander = (*CachedExpander)(nil)

// NewCachedExpander wraps inner with an LRU of the given size.
func NewCachedExpander(inner Expander, size int) (*CachedExpander, error) {
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("create expander cache: %w", err)
	}
	return &CachedExpander{inner: inner, cache: cache}, nil
}

// Variants implements Expander.
func (c *CachedExpander) Variants(token string) []string {
	if v, ok := c.cache.Get(token); ok {
		return v
	}
	v := slices.Clip(c.inner.Variants(token))
	c.cache.Add(token, v)
	return v
}

// Len returns the number of memoized tokens.
func (c *CachedExpander) Len() int { return c.cache.Len() }

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) addAll(o *orderedSet) {
	for _, v := range o.items {
		s.add(v)
	}
}

func (s *orderedSet) snapshot() []string {
	return slices.Clone(s.items)
}

func (s *orderedSet) atLeast(n int) []string {
	out := make([]string, 0, len(s.items))
	for _, v := range s.items {
		if runeLen(v) >= n {
			out = append(out, v)
		}
	}
	return out
}
