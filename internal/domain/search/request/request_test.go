package request

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("  alvás  ", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "alvás" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Scope() != scope.All {
		t.Errorf("Scope() = %q, want minden (default)", r.Scope())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
}

func TestNew_EmptyQueryAllowed(t *testing.T) {
	r, err := New("", scope.Posts, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "" {
		t.Errorf("Query() = %q", r.Query())
	}
}

func TestNew_InvalidScope(t *testing.T) {
	_, err := New("q", "blog", 5)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
	if !strings.Contains(err.Error(), "invalid scope") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_LongQueryIsCut(t *testing.T) {
	r, err := New(strings.Repeat("á", MaxQueryLength+50), scope.All, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := utf8.RuneCountInString(r.Query()); n != MaxQueryLength {
		t.Errorf("query length = %d, want %d", n, MaxQueryLength)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"negative", -1, DefaultLimit},
		{"zero", 0, DefaultLimit},
		{"one", 1, 1},
		{"normal", 7, 7},
		{"exactly max", MaxLimit, MaxLimit},
		{"over max", 50, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLimit(tt.limit); got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}
