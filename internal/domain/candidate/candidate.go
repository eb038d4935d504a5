package candidate

import (
	"strconv"
	"strings"
)

// Kind tags the collection a candidate comes from.
type Kind string

const (
	// Post is an article.
	Post Kind = "post"
	// Product is a shop item.
	Product Kind = "product"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool {
	return k == Post || k == Product
}

// FieldSet lists the record fields read for each candidate attribute,
// in priority order. Only string values are used.
type FieldSet struct {
	ID      []string
	Title   []string
	Slug    []string
	Excerpt []string
	Body    []string
}

// DefaultPostFields covers the column names seen on article rows.
func DefaultPostFields() FieldSet {
	return FieldSet{
		ID:      []string{"id", "uuid"},
		Title:   []string{"title", "post_title", "name"},
		Slug:    []string{"slug", "path"},
		Excerpt: []string{"excerpt", "intro", "summary", "meta_description"},
		Body:    []string{"content", "body", "description", "category", "tags"},
	}
}

// DefaultProductFields covers the column names seen on product rows.
func DefaultProductFields() FieldSet {
	return FieldSet{
		ID:      []string{"id", "uuid", "sku"},
		Title:   []string{"name", "title", "product_name"},
		Slug:    []string{"slug", "path"},
		Excerpt: []string{"short_description", "excerpt", "intro"},
		Body:    []string{"description", "content", "ingredients", "category", "brand"},
	}
}

// Candidate is one searchable record (immutable value object).
type Candidate struct {
	id       string
	kind     Kind
	title    string
	slug     string
	excerpt  string
	haystack string
}

// New creates a Candidate from already extracted text.
// The haystack is the title followed by the given text fields, newline-joined.
func New(id string, kind Kind, title, slug, excerpt string, text ...string) Candidate {
	parts := make([]string, 0, len(text)+1)
	parts = append(parts, title)
	for _, t := range text {
		if strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}
	return Candidate{
		id:       id,
		kind:     kind,
		title:    title,
		slug:     slug,
		excerpt:  excerpt,
		haystack: strings.Join(parts, "\n"),
	}
}

// FromRecord builds a Candidate from a loosely typed row. Fields holding
// non-string values are skipped, except that integer ids are formatted.
func FromRecord(kind Kind, rec map[string]any, fs FieldSet) Candidate {
	title := firstString(rec, fs.Title)
	excerpt := firstString(rec, fs.Excerpt)

	text := make([]string, 0, len(fs.Excerpt)+len(fs.Body))
	for _, names := range [][]string{fs.Excerpt, fs.Body} {
		for _, name := range names {
			if s, ok := rec[name].(string); ok {
				text = append(text, s)
			}
		}
	}

	return New(recordID(rec, fs.ID), kind, title, firstString(rec, fs.Slug), excerpt, text...)
}

func firstString(rec map[string]any, names []string) string {
	for _, name := range names {
		if s, ok := rec[name].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func recordID(rec map[string]any, names []string) string {
	for _, name := range names {
		switch v := rec[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case int:
			return strconv.Itoa(v)
		case int32:
			return strconv.FormatInt(int64(v), 10)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// ID returns the record identifier.
func (c Candidate) ID() string { return c.id }

// Kind returns the collection tag.
func (c Candidate) Kind() Kind { return c.kind }

// Title returns the display title.
func (c Candidate) Title() string { return c.title }

// Slug returns the URL slug relative to the collection prefix.
func (c Candidate) Slug() string { return c.slug }

// Excerpt returns the stored short description, if any.
func (c Candidate) Excerpt() string { return c.excerpt }

// Haystack returns the newline-joined text searched by the matcher.
func (c Candidate) Haystack() string { return c.haystack }
