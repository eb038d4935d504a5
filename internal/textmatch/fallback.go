package textmatch

import "strings"

// FallbackPlan selects the replacement queries for a query that found
// nothing. The first cluster with a trigger contained in the normalized
// query wins. Without a cluster, queries longer than the configured word
// count get the broad list. Replacements equal to the original are skipped.
func (r *Rules) FallbackPlan(original string) (cluster string, queries []string) {
	norm := Normalize(original)
	if norm == "" {
		return "", nil
	}

	for _, c := range r.clusters {
		for _, t := range c.Triggers {
			if strings.Contains(norm, t) {
				return c.Name, withoutQuery(c.Queries, norm)
			}
		}
	}

	if len(strings.Fields(norm)) > r.longQueryWords && len(r.broad) > 0 {
		return BroadCluster, withoutQuery(r.broad, norm)
	}
	return "", nil
}

// CandidateQueries returns the fallback queries for original, in try order.
func (r *Rules) CandidateQueries(original string) []string {
	_, qs := r.FallbackPlan(original)
	return qs
}

func withoutQuery(queries []string, norm string) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if Normalize(q) == norm {
			continue
		}
		out = append(out, q)
	}
	return out
}
