package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/kereso/internal/logger"
	"github.com/kailas-cloud/kereso/internal/metrics"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	// APIKeys guard the topic routes. Without keys the routes are not
	// mounted unless OpenTopics is set.
	APIKeys []string
	// OpenTopics serves the topic routes without auth when no key is set.
	OpenTopics bool
	// Limiter throttles /api routes per client. Nil disables it.
	Limiter *RateLimiter
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
	Logger     *zap.Logger
}

// NewRouter mounts the server routes with the standard middleware stack.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	// Inside metrics and logging so recovered panics are counted as 500s.
	r.Use(jsonRecoverer(logger))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/kereses", s.SearchPage)

	r.Route("/api", func(r chi.Router) {
		// Group middleware runs after routing, so throttled requests keep
		// their route pattern in metrics.
		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(opts.Limiter.Middleware())
			}
			r.Get("/ai-search", s.AISearch)
			if !hasKey(opts.APIKeys) && !opts.OpenTopics {
				logger.Warn("no api keys configured, topic routes disabled")
				return
			}
			r.Group(func(r chi.Router) {
				r.Use(BearerAuthMiddleware(opts.APIKeys))
				r.Post("/topics/dedupe", s.DedupeTopics)
				r.Post("/topics/discover", s.DiscoverTopics)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	return r
}

func hasKey(keys []string) bool {
	for _, k := range keys {
		if k != "" {
			return true
		}
	}
	return false
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
