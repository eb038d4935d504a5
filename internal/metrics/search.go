package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search outcome labels.
const (
	OutcomePrimary  = "primary"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kereso",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"scope", "outcome"},
	)

	SearchRankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kereso",
			Name:      "search_rank_duration_seconds",
			Help:      "Time spent ranking one collection for one query",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"kind"},
	)

	SearchCandidatesScanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kereso",
			Name:      "search_candidates_scanned_total",
			Help:      "Candidates evaluated by the ranker",
		},
		[]string{"kind"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kereso",
			Name:      "search_fallback_total",
			Help:      "Fallback activations by rule cluster",
		},
		[]string{"cluster"},
	)

	SearchCorpusErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kereso",
			Name:      "search_corpus_errors_total",
			Help:      "Corpus fetch failures",
		},
		[]string{"kind"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kereso",
			Name:      "search_cache_total",
			Help:      "Search response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kereso",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-client rate limiter",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRankDuration)
	prometheus.MustRegister(SearchCandidatesScanned)
	prometheus.MustRegister(SearchFallbackTotal)
	prometheus.MustRegister(SearchCorpusErrorsTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(RateLimitedTotal)
	searchMetricsRegistered = true
}
