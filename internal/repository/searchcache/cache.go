package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/db"
	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/textmatch"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "kereso:search:"

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Searcher is the decorated search service.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Response, error)
}

// Cached caches search responses in a key-value store.
type Cached struct {
	inner      Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cached {
	return &Cached{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached response or calls the inner service.
// Cache failures never fail the request. Errors are not cached.
func (c *Cached) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	if textmatch.Normalize(req.Query()) == "" {
		return c.inner.Search(ctx, req) //nolint:wrapcheck // transparent decorator
	}

	key := Key(req)
	if resp, ok := c.get(ctx, key); ok {
		c.inc("hit")
		// The cached entry may come from a differently spelled query.
		resp.Query = req.Query()
		if resp.Cluster == "" {
			resp.UsedQuery = req.Query()
		}
		return resp, nil
	}
	c.inc("miss")

	resp, err := c.inner.Search(ctx, req)
	if err != nil {
		return result.Response{}, fmt.Errorf("search: %w", err)
	}
	c.put(ctx, key, &resp)
	return resp, nil
}

// Key derives the cache key from the normalized query, scope and limit.
func Key(req *request.Request) string {
	h := sha256.New()
	h.Write([]byte(textmatch.Normalize(req.Query())))
	h.Write([]byte{0})
	h.Write([]byte(req.Scope()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(req.Limit())))
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *Cached) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cached) get(ctx context.Context, key string) (result.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.inc("error")
			c.logger.Warn("Failed to get cached search response", zap.String("key", key), zap.Error(err))
		}
		return result.Response{}, false
	}
	if len(data) == 0 {
		return result.Response{}, false
	}

	var dto responseDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached search response", zap.String("key", key), zap.Error(err))
		return result.Response{}, false
	}
	return dto.toDomain(), true
}

func (c *Cached) put(ctx context.Context, key string, resp *result.Response) {
	data, err := json.Marshal(toDTO(resp))
	if err != nil {
		c.logger.Warn("Failed to encode search response", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.inc("error")
		c.logger.Warn("Failed to cache search response", zap.String("key", key), zap.Error(err))
	}
}
