package kereso

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	searches *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kereso",
			Subsystem: "sdk",
			Name:      "searches_total",
			Help:      "Total SDK searches by outcome (primary, fallback, empty, error).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kereso",
			Subsystem: "sdk",
			Name:      "search_duration_seconds",
			Help:      "SDK search duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"outcome"}),
	}
	if err := registerOrReuse(reg, &m.searches); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("kereso: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("kereso: register metric: %w", err)
	}
	return nil
}

// Search outcomes.
const (
	outcomePrimary  = "primary"
	outcomeFallback = "fallback"
	outcomeEmpty    = "empty"
	outcomeError    = "error"
)

// observer provides logging and metrics for searches.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(query string, start time.Time, res *Result, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	outcome := searchOutcome(res, err)

	if o.metrics != nil {
		o.metrics.searches.WithLabelValues(outcome).Inc()
		o.metrics.duration.WithLabelValues(outcome).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("search failed",
				"query", query,
				"duration", dur,
				"error", err,
			)
			return
		}
		o.logger.Debug("search completed",
			"query", query,
			"used_query", res.UsedQuery,
			"outcome", outcome,
			"hits", len(res.Hits),
			"duration", dur,
		)
	}
}

func searchOutcome(res *Result, err error) string {
	switch {
	case err != nil:
		return outcomeError
	case len(res.Hits) == 0:
		return outcomeEmpty
	case res.IsFallback():
		return outcomeFallback
	default:
		return outcomePrimary
	}
}
