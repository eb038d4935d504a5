package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/metrics"
)

const systemPrompt = "Egy magyar egészség- és életmód-magazin szerkesztője vagy. " +
	"Javasolj új cikkcímeket a megadott témához. " +
	"Minden cím külön sorba kerüljön, számozás és magyarázat nélkül."

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)

// Suggester proposes article topics using an OpenAI-compatible chat API.
type Suggester struct {
	client      *openai.Client
	model       string
	provider    string
	temperature float32
	logger      *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Provider    string
	Temperature float32
	Logger      *zap.Logger
}

// NewSuggester creates an OpenAI-compatible topic suggester.
func NewSuggester(cfg *Config) *Suggester {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Suggester{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		provider:    cfg.Provider,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Suggest asks the model for up to n topic titles around seed.
func (s *Suggester) Suggest(ctx context.Context, seed string, n int) ([]string, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Téma: %s\nDarabszám: %d", seed, n)},
		},
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		s.logger.Warn("topic suggestion failed", zap.String("model", s.model), zap.Error(err))
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(s.provider, s.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(s.provider, s.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(s.provider, s.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(s.provider, s.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return parseTitles(resp.Choices[0].Message.Content, n), nil
}

// parseTitles splits a completion into distinct titles, dropping list markers.
func parseTitles(content string, n int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(content, "\n") {
		title := listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		title = strings.Trim(title, "\"„”'` ")
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, title)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrLLMProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrLLMProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("chat request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
