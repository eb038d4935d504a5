package textmatch

import (
	"strings"
	"unicode"
)

const ellipsis = "…"

// Excerpt collapses whitespace in text and cuts it to at most maxRunes
// runes, the trailing ellipsis included, preferring a word boundary.
func Excerpt(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) <= maxRunes {
		return text
	}
	keep := maxRunes - 1
	cut := r[:keep]
	if i := lastSpace(cut); i > keep/2 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(string(cut), func(c rune) bool {
		return unicode.IsSpace(c) || unicode.IsPunct(c)
	}) + ellipsis
}

// Snippet picks the paragraph of haystackRaw that best shows why it matched
// q: the first paragraph after the title with a variant hit, otherwise the
// first non-empty paragraph after the title, otherwise the title itself.
func (e *Engine) Snippet(haystackRaw string, q Query, maxRunes int) string {
	paras := strings.Split(haystackRaw, "\n")
	if len(paras) == 0 {
		return ""
	}
	body := paras[1:]

	if !q.IsEmpty() {
		for _, p := range body {
			h := NewHaystack(p)
			if h.IsEmpty() {
				continue
			}
			if e.paragraphMatches(h, q) {
				return Excerpt(p, maxRunes)
			}
		}
	}
	for _, p := range body {
		if strings.TrimSpace(p) != "" {
			return Excerpt(p, maxRunes)
		}
	}
	return Excerpt(paras[0], maxRunes)
}

func (e *Engine) paragraphMatches(h Haystack, q Query) bool {
	if len(q.Tokens) == 0 {
		return strings.Contains(h.text, q.Normalized)
	}
	for _, vs := range q.Variants {
		if e.anyVariant(h, vs) {
			return true
		}
	}
	return false
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if unicode.IsSpace(r[i]) {
			return i
		}
	}
	return -1
}
