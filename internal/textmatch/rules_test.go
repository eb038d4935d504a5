package textmatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()

	assert.Equal(t, 3, r.MinTokenLength())
	assert.True(t, r.IsStopWord("es"))
	assert.True(t, r.IsStopWord("vagyok"))
	assert.False(t, r.IsStopWord("stressz"))
	assert.Contains(t, r.Suffixes(), "ban")
	assert.Contains(t, r.Synonyms("torokfajas"), "mandulagyulladas")
	require.NotEmpty(t, r.Clusters())
	assert.Equal(t, "hunger", r.Clusters()[0].Name)

	for name, n := range r.Stats() {
		assert.Positive(t, n, name)
	}
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "minimal",
			yaml: "suffixes: [ban, ben]\n",
		},
		{
			name:    "broken yaml",
			yaml:    "suffixes: [ban\n",
			wantErr: true,
		},
		{
			name:    "no suffixes",
			yaml:    "stop_words: [a]\n",
			wantErr: true,
		},
		{
			name:    "suffix with space",
			yaml:    "suffixes: [\"b an\"]\n",
			wantErr: true,
		},
		{
			name:    "empty synonym key",
			yaml:    "suffixes: [ban]\nsynonyms:\n  \"!!\": [x]\n",
			wantErr: true,
		},
		{
			name:    "cluster without queries",
			yaml:    "suffixes: [ban]\nfallback:\n  clusters:\n    - name: x\n      triggers: [a]\n",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRules([]byte(tc.yaml))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRules)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultMinTokenLength, r.MinTokenLength())
		})
	}
}

func TestParseRules_NormalizesWords(t *testing.T) {
	r, err := ParseRules([]byte(`
suffixes: [BAN, ban, ből]
stop_words: [ÉS]
synonyms:
  Fejfájás: [Migrén, fejfájás]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"ban", "bol"}, r.Suffixes())
	assert.True(t, r.IsStopWord("es"))
	// The key itself is never its own synonym.
	assert.Equal(t, []string{"migren"}, r.Synonyms("fejfajas"))
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_token_length: 4\nsuffixes: [ok]\n"), 0o600))

	r, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 4, r.MinTokenLength())

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
