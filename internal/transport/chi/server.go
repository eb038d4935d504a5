package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
	"github.com/kailas-cloud/kereso/internal/logger"
	healthuc "github.com/kailas-cloud/kereso/internal/usecase/health"
	topicsuc "github.com/kailas-cloud/kereso/internal/usecase/topics"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest        = "bad_request"
	codeUnauthorized      = "unauthorized"
	codeValidationFailed  = "validation_failed"
	codeRateLimited       = "rate_limited"
	codeNotConfigured     = "not_configured"
	codeCorpusUnavailable = "corpus_unavailable"
	codeProviderError     = "llm_provider_error"
	codeNotFound          = "not_found"
	codeInternalError     = "internal_error"
)

// ErrorResponse is the JSON error body of every route except ai-search.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Searcher runs one search request. Satisfied by the search service and
// its caching decorator.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Response, error)
}

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	topics        *topicsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultLimit  int
	pageLimit     int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(
	search Searcher,
	topics *topicsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		topics:       topics,
		health:       health,
		logger:       logger,
		defaultLimit: request.DefaultLimit,
		pageLimit:    request.PageLimit,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, codeCorpusUnavailable),
		sentinelHandler(domain.ErrNotConfigured, http.StatusServiceUnavailable, codeNotConfigured),
	}
	return s
}

// WithLimits overrides the default ai-search result count and the search
// page result count. Non-positive values keep the current setting.
func (s *Server) WithLimits(defaultLimit, pageLimit int) *Server {
	if defaultLimit > 0 {
		s.defaultLimit = request.ClampLimit(defaultLimit)
	}
	if pageLimit > 0 {
		s.pageLimit = request.ClampLimit(pageLimit)
	}
	return s
}

type aiSearchHit struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type aiSearchResponse struct {
	Query     string        `json:"query"`
	UsedQuery string        `json:"usedQuery,omitempty"`
	Count     int           `json:"count"`
	Results   []aiSearchHit `json:"results"`
}

type aiSearchError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// AISearch handles GET /api/ai-search.
func (s *Server) AISearch(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid q parameter")
		return
	}
	limit := s.defaultLimit
	var requested int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &requested); err == nil &&
		requested != 0 {
		limit = requested
	}

	req, err := request.New(q, scope.All, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, safeDomainMessage(err))
		return
	}
	if req.Query() == "" {
		writeJSON(w, http.StatusOK, aiSearchResponse{Results: []aiSearchHit{}})
		return
	}

	ctx := logger.WithFields(r.Context(), zap.String("query", req.Query()), zap.Int("limit", req.Limit()))
	resp, err := s.search.Search(ctx, &req)
	if err != nil {
		logger.FromContext(ctx).Error("ai search failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, aiSearchError{Error: safeDomainMessage(err)})
		return
	}

	hits := resp.Merged(req.Limit())
	items := make([]aiSearchHit, len(hits))
	for i := range hits {
		items[i] = aiSearchHit{
			ID:      hits[i].ID(),
			Type:    string(hits[i].Kind()),
			Title:   hits[i].Title(),
			URL:     hits[i].URL(),
			Snippet: hits[i].Snippet(),
		}
	}

	writeJSON(w, http.StatusOK, aiSearchResponse{
		Query:     resp.Query,
		UsedQuery: resp.UsedQuery,
		Count:     len(items),
		Results:   items,
	})
}

type dedupeRequest struct {
	Candidates []string `json:"candidates"`
}

type discoverRequest struct {
	Seed  string `json:"seed"`
	Count int    `json:"count"`
}

type verdictItem struct {
	Topic      string `json:"topic"`
	Duplicate  bool   `json:"duplicate"`
	MatchID    string `json:"matchId,omitempty"`
	MatchTitle string `json:"matchTitle,omitempty"`
	Score      int    `json:"score"`
}

type verdictListResponse struct {
	Items []verdictItem `json:"items"`
	Fresh int           `json:"fresh"`
}

// DedupeTopics handles POST /api/topics/dedupe.
func (s *Server) DedupeTopics(w http.ResponseWriter, r *http.Request) {
	var req dedupeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "candidates must not be empty")
		return
	}

	verdicts, err := s.topics.Dedupe(r.Context(), req.Candidates)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdictsToResponse(verdicts))
}

// DiscoverTopics handles POST /api/topics/discover.
func (s *Server) DiscoverTopics(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	verdicts, err := s.topics.Discover(r.Context(), req.Seed, req.Count)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdictsToResponse(verdicts))
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func verdictsToResponse(verdicts []topicsuc.Verdict) verdictListResponse {
	resp := verdictListResponse{Items: make([]verdictItem, len(verdicts))}
	for i, v := range verdicts {
		resp.Items[i] = verdictItem{
			Topic:      v.Topic,
			Duplicate:  v.Duplicate,
			MatchID:    v.MatchID,
			MatchTitle: v.MatchTitle,
			Score:      v.Score,
		}
		if !v.Duplicate {
			resp.Fresh++
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrLLMProviderError,
		domain.ErrCorpusUnavailable,
		domain.ErrNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// trimmedQuery reads a query string value, trimmed.
func trimmedQuery(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
