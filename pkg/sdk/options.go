package kereso

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Searcher.
type Option interface {
	apply(*searcherConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*searcherConfig)

func (f optionFunc) apply(c *searcherConfig) { f(c) }

type searcherConfig struct {
	rulesYAML    []byte
	rulesPath    string
	editDistance bool

	baseURL       string
	postPrefix    string
	productPrefix string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRules replaces the embedded Hungarian rules with a YAML document
// (stop words, suffixes, synonyms, fallback clusters).
func WithRules(yaml []byte) Option {
	return optionFunc(func(c *searcherConfig) {
		c.rulesYAML = yaml
		c.rulesPath = ""
	})
}

// WithRulesFile loads the language rules from a YAML file.
func WithRulesFile(path string) Option {
	return optionFunc(func(c *searcherConfig) {
		c.rulesPath = path
		c.rulesYAML = nil
	})
}

// WithEditDistance toggles typo-tolerant matching. Default: on.
func WithEditDistance(on bool) Option {
	return optionFunc(func(c *searcherConfig) {
		c.editDistance = on
	})
}

// WithLinks sets the site URL and the path prefixes of article and
// product pages used to build hit URLs.
// Defaults: no base URL, "/blog" and "/termek".
func WithLinks(baseURL, postPrefix, productPrefix string) Option {
	return optionFunc(func(c *searcherConfig) {
		c.baseURL = baseURL
		c.postPrefix = postPrefix
		c.productPrefix = productPrefix
	})
}

// WithLogger enables structured logging for searches.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *searcherConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (search counts, durations and
// fallbacks) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *searcherConfig) {
		c.metricsReg = reg
	})
}
