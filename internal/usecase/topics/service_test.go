package topics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/candidate"
)

// --- Mocks ---

type fakeCorpus struct {
	posts []candidate.Candidate
	err   error
	kinds []candidate.Kind
}

func (f *fakeCorpus) Recent(_ context.Context, kind candidate.Kind) ([]candidate.Candidate, error) {
	f.kinds = append(f.kinds, kind)
	return f.posts, f.err
}

type fakeSuggester struct {
	topics []string
	err    error
	gotN   int
}

func (f *fakeSuggester) Suggest(_ context.Context, _ string, n int) ([]string, error) {
	f.gotN = n
	return f.topics, f.err
}

func articles() []candidate.Candidate {
	return []candidate.Candidate{
		candidate.New("11", candidate.Post, "Alvászavar ellen természetesen", "alvaszavar", "", "Tippek a jobb alváshoz"),
		candidate.New("12", candidate.Post, "Magnézium és stressz", "magnezium", "", "Mikor segít a magnézium?"),
	}
}

// --- Tests ---

func TestDedupe(t *testing.T) {
	corpus := &fakeCorpus{posts: articles()}
	svc := New(corpus, nil, nil)

	got, err := svc.Dedupe(context.Background(), []string{
		"Alvászavar természetesen",
		"  ",
		"Kurkuma gyulladás ellen",
		"Kurkuma gyulladásra",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []candidate.Kind{candidate.Post}, corpus.kinds)

	assert.True(t, got[0].Duplicate)
	assert.Equal(t, "11", got[0].MatchID)
	assert.Equal(t, "Alvászavar ellen természetesen", got[0].MatchTitle)
	assert.Positive(t, got[0].Score)

	assert.Equal(t, "Kurkuma gyulladás ellen", got[1].Topic)
	assert.False(t, got[1].Duplicate)

	// Collides with the previous topic of the same batch.
	assert.True(t, got[2].Duplicate)
	assert.Empty(t, got[2].MatchID)
	assert.Equal(t, "Kurkuma gyulladás ellen", got[2].MatchTitle)
}

func TestDedupe_TooMany(t *testing.T) {
	svc := New(&fakeCorpus{}, nil, nil)
	_, err := svc.Dedupe(context.Background(), make([]string, MaxCandidates+1))
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestDedupe_CorpusError(t *testing.T) {
	cause := errors.New("db down")
	svc := New(&fakeCorpus{err: cause}, nil, nil)
	_, err := svc.Dedupe(context.Background(), []string{"alvás"})
	assert.ErrorIs(t, err, cause)
}

func TestDiscover(t *testing.T) {
	sug := &fakeSuggester{topics: []string{"Magnézium stressz ellen", "Vitamin télen", "Extra"}}
	svc := New(&fakeCorpus{posts: articles()}, nil, sug)

	got, err := svc.Discover(context.Background(), "stressz", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, sug.gotN)
	require.Len(t, got, 2)
	assert.True(t, got[0].Duplicate)
	assert.Equal(t, "12", got[0].MatchID)
	assert.False(t, got[1].Duplicate)
}

func TestDiscover_Bounds(t *testing.T) {
	sug := &fakeSuggester{}
	svc := New(&fakeCorpus{}, nil, sug)

	_, err := svc.Discover(context.Background(), "alvás", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDiscover, sug.gotN)

	_, err = svc.Discover(context.Background(), "alvás", 500)
	require.NoError(t, err)
	assert.Equal(t, MaxDiscover, sug.gotN)
}

func TestDiscover_Errors(t *testing.T) {
	_, err := New(&fakeCorpus{}, nil, nil).Discover(context.Background(), "alvás", 3)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = New(&fakeCorpus{}, nil, &fakeSuggester{}).Discover(context.Background(), " ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	sugErr := errors.Join(domain.ErrLLMProviderError, errors.New("429"))
	_, err = New(&fakeCorpus{}, nil, &fakeSuggester{err: sugErr}).Discover(context.Background(), "alvás", 3)
	assert.ErrorIs(t, err, domain.ErrLLMProviderError)
}
