package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds text into the canonical comparison form: lowercase,
// combining marks stripped ("á" -> "a", "ő" -> "o"), "ß" -> "ss", and every
// run of characters that are neither letters nor digits collapsed into a
// single space. The result is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// transform.Chain is stateful, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case r == 'ß' || r == 'ẞ':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteString("ss")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// Tokenize normalizes query and returns its content words in order:
// whitespace-separated tokens of at least minLen runes that are not stop words.
// An empty result means the caller has to fall back to substring comparison.
func Tokenize(query string, stop map[string]struct{}, minLen int) []string {
	fields := strings.Fields(Normalize(query))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minLen {
			continue
		}
		if _, ok := stop[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// dropLastRune returns s without its final rune.
func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
