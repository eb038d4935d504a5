package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestCorpusError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCorpusError("posts", cause)

	if !errors.Is(err, ErrCorpusUnavailable) {
		t.Error("expected errors.Is(err, ErrCorpusUnavailable)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}
	if !strings.Contains(err.Error(), "posts") {
		t.Errorf("error = %q, want collection name", err)
	}

	var ce *CorpusError
	if !errors.As(err, &ce) || ce.Collection != "posts" {
		t.Errorf("errors.As = %v", ce)
	}
}
