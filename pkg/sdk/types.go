package kereso

// Record is one candidate row: column name to value. Only string values
// are searched; numeric ids are formatted.
type Record = map[string]any

// HitType tags the collection a hit comes from.
type HitType string

// Hit type constants.
const (
	HitPost    HitType = "post"
	HitProduct HitType = "product"
)

// Hit is a single ranked search hit.
type Hit struct {
	ID      string
	Type    HitType
	Title   string
	URL     string
	Excerpt string
	Snippet string
	Score   int
}

// Result is the outcome of one search.
type Result struct {
	Query string
	// UsedQuery is the fallback query that produced the hits, or Query.
	UsedQuery string
	// Cluster names the fallback topic, empty for direct hits.
	Cluster  string
	Articles []Hit
	Products []Hit
	// Hits merges both lists by score, articles first on ties, capped at the limit.
	Hits []Hit
}

// IsFallback reports whether the hits come from a rewritten query.
func (r Result) IsFallback() bool { return r.UsedQuery != r.Query }
