package textmatch

import (
	"testing"

	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
)

func TestTokenMatches(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		variant  string
		want     bool
	}{
		{"substring", "Hogyan győzd le az alvászavart", "alvászavar", true},
		{"token prefix", "mandulagyulladás kezelése", "mandula", true},
		{"variant starts with token", "kollagén tabletta", "kollagenes", true},
		{"common prefix drift", "így növelheted az energiádat", "növelése", true},
		{"edit distance long", "napi vitamin adag", "bitamin", true},
		{"edit distance short", "meleg tea", "mrleg", true},
		{"diacritics and case", "TOROKFÁJÁS ellen", "torokfajas", true},
		{"unrelated", "friss zöldség", "alvás", false},
		{"empty variant", "bármi", "", false},
		{"empty haystack", "", "alvas", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TokenMatches(tc.haystack, tc.variant))
		})
	}
}

func TestMatcher_ShortTokensDoNotPrefixVariants(t *testing.T) {
	m := Matcher{}
	// "a" and "az" are prefixes of the variant but too short to count.
	assert.False(t, m.Matches(NewHaystack("a az"), "alvaszavar"))
}

func TestMatcher_ReversePrefixBounds(t *testing.T) {
	m := Matcher{}
	tests := []struct {
		name     string
		haystack string
		variant  string
		want     bool
	}{
		{"four rune token", "alva", "alvaszavar", true},
		{"three rune token", "alv", "alvaszavar", false},
		{"variant too short", "alva", "alvas", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Matches(NewHaystack(tc.haystack), tc.variant))
		})
	}
}

func TestMatcher_EditDistanceToggle(t *testing.T) {
	h := NewHaystack("napi vitamin adag")

	assert.True(t, Matcher{EditDistance: true}.Matches(h, "bitamin"))
	assert.False(t, Matcher{EditDistance: false}.Matches(h, "bitamin"))
}

func TestWithinDistance_AgreesWithLevenshtein(t *testing.T) {
	words := []string{
		"", "a", "ab", "alvas", "alvás", "alvaszavar", "alvaszavart", "vitamin",
		"bitamin", "vitamn", "vitaminok", "magnezium", "magnesium", "kollagen",
		"stressz", "stresz", "tressz", "fejfajas", "fejfajás", "torok",
	}
	for _, a := range words {
		for _, b := range words {
			d := edlib.LevenshteinDistance(a, b)
			for k := 0; k <= 2; k++ {
				assert.Equal(t, d <= k, withinDistance(a, b, k), "%q vs %q k=%d (distance %d)", a, b, k, d)
			}
		}
	}
}

func TestWithinDistance_NegativeBound(t *testing.T) {
	assert.False(t, withinDistance("a", "a", -1))
}

func TestCommonPrefixLen(t *testing.T) {
	assert.Equal(t, 5, commonPrefixLen("novelese", "novelheted"))
	assert.Equal(t, 0, commonPrefixLen("abc", "xyz"))
	assert.Equal(t, 3, commonPrefixLen("abc", "abc"))
}
