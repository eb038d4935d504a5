package search

import (
	"net/url"
	"strings"

	"github.com/kailas-cloud/kereso/internal/domain/candidate"
)

// Links builds absolute page URLs for hits.
type Links struct {
	BaseURL       string
	PostPrefix    string
	ProductPrefix string
}

// URL returns the absolute URL of a record. The slug is path-escaped;
// records without a slug fall back to their id.
func (l Links) URL(kind candidate.Kind, slug, id string) string {
	prefix := l.PostPrefix
	if kind == candidate.Product {
		prefix = l.ProductPrefix
	}
	if slug == "" {
		slug = id
	}
	base := strings.TrimRight(l.BaseURL, "/")
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		base += "/" + prefix
	}
	return base + "/" + url.PathEscape(strings.Trim(slug, "/"))
}
