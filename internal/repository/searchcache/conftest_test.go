package searchcache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/db"
	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
)

type mockSearcher struct {
	resp  result.Response
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, req *request.Request) (result.Response, error) {
	m.calls++
	if m.err != nil {
		return result.Response{}, m.err
	}
	resp := m.resp
	resp.Query = req.Query()
	if resp.UsedQuery == "" {
		resp.UsedQuery = req.Query()
	}
	return resp, nil
}

// mockKVStore is an in-memory store implementing the consumer interface.
type mockKVStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setKeys = append(m.setKeys, key)
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestCache(t *testing.T, inner *mockSearcher) (*Cached, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := newMockKVStore()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	return New(inner, ms, time.Minute, counter, zap.NewNop()), ms, counter
}

func makeRequest(t *testing.T, q string, s scope.Scope, limit int) *request.Request {
	t.Helper()
	r, err := request.New(q, s, limit)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}
