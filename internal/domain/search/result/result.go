package result

import "github.com/kailas-cloud/kereso/internal/domain/candidate"

// Hit is a single ranked search hit, shaped for output.
type Hit struct {
	id      string
	kind    candidate.Kind
	title   string
	url     string
	excerpt string
	snippet string
	score   int
}

// New creates a search hit.
func New(id string, kind candidate.Kind, title, url, excerpt, snippet string, score int) Hit {
	return Hit{
		id: id, kind: kind, title: title, url: url,
		excerpt: excerpt, snippet: snippet, score: score,
	}
}

// ID returns the record identifier.
func (h *Hit) ID() string { return h.id }

// Kind returns the collection tag ("post" or "product").
func (h *Hit) Kind() candidate.Kind { return h.kind }

// Title returns the display title.
func (h *Hit) Title() string { return h.title }

// URL returns the absolute page URL.
func (h *Hit) URL() string { return h.url }

// Excerpt returns the short card text.
func (h *Hit) Excerpt() string { return h.excerpt }

// Snippet returns the longer text showing why the hit matched.
func (h *Hit) Snippet() string { return h.snippet }

// Score returns the ranking score including the title bonus.
func (h *Hit) Score() int { return h.score }

// Response is the outcome of one search request.
// UsedQuery differs from Query only when a fallback query produced the hits.
type Response struct {
	Query     string
	UsedQuery string
	// Cluster names the fallback rule that produced the hits, if any.
	Cluster  string
	Articles []Hit
	Products []Hit
}

// Total returns the number of hits across both collections.
func (r *Response) Total() int { return len(r.Articles) + len(r.Products) }

// IsFallback reports whether the hits come from a rewritten query.
func (r *Response) IsFallback() bool { return r.UsedQuery != r.Query }

// Merged interleaves articles and products by descending score, keeping each
// list's own order and preferring articles on ties, capped at limit.
// A non-positive limit returns every hit.
func (r *Response) Merged(limit int) []Hit {
	total := r.Total()
	if limit <= 0 || limit > total {
		limit = total
	}
	out := make([]Hit, 0, limit)
	i, j := 0, 0
	for len(out) < limit {
		switch {
		case j >= len(r.Products):
			out = append(out, r.Articles[i])
			i++
		case i >= len(r.Articles):
			out = append(out, r.Products[j])
			j++
		case r.Products[j].score > r.Articles[i].score:
			out = append(out, r.Products[j])
			j++
		default:
			out = append(out, r.Articles[i])
			i++
		}
	}
	return out
}
