package textmatch

import "strings"

const (
	// commonPrefixMin is the shared prefix length that counts as inflection drift.
	commonPrefixMin = 5
	// reversePrefixMin is the variant length from which a haystack token may be its prefix.
	reversePrefixMin = 6
	// reversePrefixTokenMin keeps one- and two-letter words from prefixing everything.
	reversePrefixTokenMin = 4
	// shortVariantMax is the longest variant that gets edit distance 1; longer ones get 2.
	shortVariantMax = 6
)

// Haystack is a candidate text prepared for matching.
type Haystack struct {
	text   string
	tokens []string
}

// NewHaystack normalizes raw and splits it into tokens once.
func NewHaystack(raw string) Haystack {
	text := Normalize(raw)
	return Haystack{text: text, tokens: strings.Fields(text)}
}

// Text returns the normalized haystack.
func (h Haystack) Text() string { return h.text }

// IsEmpty reports whether the haystack has no searchable text.
func (h Haystack) IsEmpty() bool { return h.text == "" }

// Matcher decides whether a haystack satisfies a single variant.
type Matcher struct {
	// EditDistance enables the bounded Levenshtein fallback.
	EditDistance bool
}

// Matches reports whether variant occurs in h. variant is normalized first.
//
// A haystack token counts when it contains or starts with the variant, when
// it is a prefix of a variant of at least 6 runes, when the two share a
// 5-rune prefix, or (with EditDistance) when they are within edit distance
// 1, or 2 for variants longer than 6 runes. The reverse-prefix rule only
// applies to haystack tokens of at least 4 runes, so articles such as "a"
// and "az" never prefix a long variant.
func (m Matcher) Matches(h Haystack, variant string) bool {
	return m.matchNormalized(h, Normalize(variant))
}

func (m Matcher) matchNormalized(h Haystack, v string) bool {
	if v == "" || h.text == "" {
		return false
	}
	if strings.Contains(h.text, v) {
		return true
	}

	vLen := runeLen(v)
	bound := 1
	if vLen > shortVariantMax {
		bound = 2
	}

	for _, tok := range h.tokens {
		if strings.HasPrefix(tok, v) {
			return true
		}
		tLen := runeLen(tok)
		if vLen >= reversePrefixMin && tLen >= reversePrefixTokenMin && strings.HasPrefix(v, tok) {
			return true
		}
		if commonPrefixLen(tok, v) >= commonPrefixMin {
			return true
		}
		if m.EditDistance && abs(tLen-vLen) <= bound && withinDistance(tok, v, bound) {
			return true
		}
	}
	return false
}

// TokenMatches reports whether variant matches haystackRaw with every rule
// enabled, edit distance included.
func TokenMatches(haystackRaw, variant string) bool {
	return Matcher{EditDistance: true}.Matches(NewHaystack(haystackRaw), variant)
}

// commonPrefixLen counts the leading runes a and b share.
func commonPrefixLen(a, b string) int {
	n := 0
	ar, br := []rune(a), []rune(b)
	for n < len(ar) && n < len(br) && ar[n] == br[n] {
		n++
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
