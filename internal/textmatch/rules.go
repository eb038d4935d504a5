package textmatch

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRules signals a rules document that cannot drive matching.
var ErrInvalidRules = errors.New("invalid matching rules")

//go:embed rules/hu.yaml
var defaultRulesYAML []byte

const (
	defaultMinTokenLength = 3
	defaultLongQueryWords = 8
	// BroadCluster names the generic fallback used for long, unmatched queries.
	BroadCluster = "broad"
)

// RulesFile is the on-disk representation of the language rules.
type RulesFile struct {
	MinTokenLength int                 `yaml:"min_token_length"`
	StopWords      []string            `yaml:"stop_words"`
	Suffixes       []string            `yaml:"suffixes"`
	Synonyms       map[string][]string `yaml:"synonyms"`
	Fallback       FallbackFile        `yaml:"fallback"`
}

// FallbackFile holds the topic-substitution table.
type FallbackFile struct {
	LongQueryWords int               `yaml:"long_query_words"`
	Clusters       []FallbackCluster `yaml:"clusters"`
	Broad          []string          `yaml:"broad"`
}

// FallbackCluster maps trigger keywords to replacement queries.
type FallbackCluster struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers"`
	Queries  []string `yaml:"queries"`
}

// Rules is the compiled, read-only policy the engine runs with.
// All words are stored normalized. Safe for concurrent use.
type Rules struct {
	minTokenLength int
	stop           map[string]struct{}
	suffixes       []string
	synonyms       map[string][]string
	clusters       []FallbackCluster
	broad          []string
	longQueryWords int
}

var defaultRules = sync.OnceValue(func() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic("textmatch: embedded rules are invalid: " + err.Error())
	}
	return r
})

// DefaultRules returns the embedded Hungarian rule set.
func DefaultRules() *Rules {
	return defaultRules()
}

// LoadRules reads and compiles a YAML rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

// ParseRules decodes and compiles a YAML rules document.
func ParseRules(data []byte) (*Rules, error) {
	var f RulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	return Compile(f)
}

// Compile validates f and normalizes every word in it.
func Compile(f RulesFile) (*Rules, error) {
	r := &Rules{
		minTokenLength: f.MinTokenLength,
		stop:           make(map[string]struct{}, len(f.StopWords)),
		synonyms:       make(map[string][]string, len(f.Synonyms)),
		longQueryWords: f.Fallback.LongQueryWords,
	}
	if r.minTokenLength <= 0 {
		r.minTokenLength = defaultMinTokenLength
	}
	if r.longQueryWords <= 0 {
		r.longQueryWords = defaultLongQueryWords
	}

	for _, w := range f.StopWords {
		if n := Normalize(w); n != "" {
			r.stop[n] = struct{}{}
		}
	}

	if len(f.Suffixes) == 0 {
		return nil, fmt.Errorf("%w: suffix list is empty", ErrInvalidRules)
	}
	seen := make(map[string]struct{}, len(f.Suffixes))
	for _, s := range f.Suffixes {
		n := Normalize(s)
		if n == "" || strings.Contains(n, " ") {
			return nil, fmt.Errorf("%w: bad suffix %q", ErrInvalidRules, s)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		r.suffixes = append(r.suffixes, n)
	}

	for k, vs := range f.Synonyms {
		key := Normalize(k)
		if key == "" {
			return nil, fmt.Errorf("%w: empty synonym key", ErrInvalidRules)
		}
		for _, v := range vs {
			if n := Normalize(v); n != "" && n != key {
				r.synonyms[key] = append(r.synonyms[key], n)
			}
		}
	}

	for i, c := range f.Fallback.Clusters {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: fallback cluster #%d has no name", ErrInvalidRules, i)
		}
		if len(c.Triggers) == 0 || len(c.Queries) == 0 {
			return nil, fmt.Errorf("%w: fallback cluster %q needs triggers and queries", ErrInvalidRules, c.Name)
		}
		compiled := FallbackCluster{Name: c.Name}
		for _, t := range c.Triggers {
			if n := Normalize(t); n != "" {
				compiled.Triggers = append(compiled.Triggers, n)
			}
		}
		compiled.Queries = nonEmpty(c.Queries)
		r.clusters = append(r.clusters, compiled)
	}
	r.broad = nonEmpty(f.Fallback.Broad)

	return r, nil
}

// MinTokenLength returns the shortest token length kept by the tokenizer.
func (r *Rules) MinTokenLength() int { return r.minTokenLength }

// IsStopWord reports whether the normalized word is a stop word.
func (r *Rules) IsStopWord(word string) bool {
	_, ok := r.stop[word]
	return ok
}

// Suffixes returns the normalized suffix list in strip order.
func (r *Rules) Suffixes() []string { return r.suffixes }

// Synonyms returns the synonyms registered for a normalized word.
func (r *Rules) Synonyms(word string) []string { return r.synonyms[word] }

// Clusters returns the fallback clusters in priority order.
func (r *Rules) Clusters() []FallbackCluster { return r.clusters }

// Tokenize splits query into content tokens using these rules.
func (r *Rules) Tokenize(query string) []string {
	return Tokenize(query, r.stop, r.minTokenLength)
}

// Stats summarizes the rule set sizes.
func (r *Rules) Stats() map[string]int {
	return map[string]int{
		"stop_words": len(r.stop),
		"suffixes":   len(r.suffixes),
		"synonyms":   len(r.synonyms),
		"clusters":   len(r.clusters),
		"broad":      len(r.broad),
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
