package chi

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/metrics"
)

// RateLimiter keeps one token bucket per client address. The least recently
// seen clients are forgotten once the table is full.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	clients *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst for each of at most size clients.
func NewRateLimiter(rps float64, burst, size int) (*RateLimiter, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rate limit needs positive rps and burst, got %v/%d", rps, burst)
	}
	clients, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, fmt.Errorf("create client table: %w", err)
	}
	return &RateLimiter{limit: rate.Limit(rps), burst: burst, clients: clients}, nil
}

// Allow reports whether client may make a request now.
func (l *RateLimiter) Allow(client string) bool {
	l.mu.Lock()
	lim, ok := l.clients.Get(client)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients.Add(client, lim)
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Middleware rejects requests over the client's budget with 429.
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(1, int(1/float64(l.limit))))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, codeRateLimited, domain.ErrRateLimited.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. Proxy headers are applied
// upstream by middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
