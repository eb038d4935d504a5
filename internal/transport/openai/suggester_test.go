package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterLLMMetrics()
	os.Exit(m.Run())
}

func newTestSuggester(url string) *Suggester {
	return NewSuggester(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestSuggester_Suggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		if !strings.Contains(req.Messages[1].Content, "alvás") {
			t.Errorf("seed missing from prompt: %q", req.Messages[1].Content)
		}

		resp := openai.ChatCompletionResponse{
			Model: "test-model",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "1. Alvászavar ellen\n- „Esti rutin”\n\n5 tipp a jobb alvásért\nalvászavar ellen\nMelatonin",
				},
			}},
			Usage: openai.Usage{PromptTokens: 20, CompletionTokens: 15, TotalTokens: 35},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	got, err := newTestSuggester(server.URL).Suggest(context.Background(), "alvás", 3)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}

	want := []string{"Alvászavar ellen", "Esti rutin", "5 tipp a jobb alvásért"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("title[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSuggester_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer server.Close()

	_, err := newTestSuggester(server.URL).Suggest(context.Background(), "alvás", 3)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error = %q", err)
	}
}

func TestSuggester_DetailError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"upstream overloaded"}`))
	}))
	defer server.Close()

	_, err := newTestSuggester(server.URL).Suggest(context.Background(), "alvás", 3)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestSuggester_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestSuggester(server.URL).Suggest(context.Background(), "alvás", 3)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestParseTitles(t *testing.T) {
	got := parseTitles("* Egy\n2) Kettő\n\n  \n\"Három\"\negy", 0)
	want := []string{"Egy", "Kettő", "Három"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("title[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractDetail(t *testing.T) {
	if d := extractDetail([]byte(`{"detail":"boom"}`)); d != "boom" {
		t.Errorf("extractDetail = %q", d)
	}
	if d := extractDetail([]byte(`not json`)); d != "" {
		t.Errorf("extractDetail = %q", d)
	}
}
