package searchcache

import (
	"github.com/kailas-cloud/kereso/internal/domain/candidate"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
)

type hitDTO struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Score   int    `json:"score"`
}

type responseDTO struct {
	Query     string   `json:"query"`
	UsedQuery string   `json:"used_query"`
	Cluster   string   `json:"cluster,omitempty"`
	Articles  []hitDTO `json:"articles"`
	Products  []hitDTO `json:"products"`
}

func toDTO(r *result.Response) responseDTO {
	return responseDTO{
		Query:     r.Query,
		UsedQuery: r.UsedQuery,
		Cluster:   r.Cluster,
		Articles:  hitsToDTO(r.Articles),
		Products:  hitsToDTO(r.Products),
	}
}

func hitsToDTO(hits []result.Hit) []hitDTO {
	out := make([]hitDTO, len(hits))
	for i := range hits {
		h := &hits[i]
		out[i] = hitDTO{
			ID: h.ID(), Kind: string(h.Kind()), Title: h.Title(), URL: h.URL(),
			Excerpt: h.Excerpt(), Snippet: h.Snippet(), Score: h.Score(),
		}
	}
	return out
}

func (d *responseDTO) toDomain() result.Response {
	return result.Response{
		Query:     d.Query,
		UsedQuery: d.UsedQuery,
		Cluster:   d.Cluster,
		Articles:  hitsFromDTO(d.Articles),
		Products:  hitsFromDTO(d.Products),
	}
}

func hitsFromDTO(in []hitDTO) []result.Hit {
	out := make([]result.Hit, len(in))
	for i, h := range in {
		out[i] = result.New(h.ID, candidate.Kind(h.Kind), h.Title, h.URL, h.Excerpt, h.Snippet, h.Score)
	}
	return out
}
