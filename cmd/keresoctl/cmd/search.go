package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/candidate"
	"github.com/kailas-cloud/kereso/internal/domain/search/request"
	"github.com/kailas-cloud/kereso/internal/domain/search/result"
	"github.com/kailas-cloud/kereso/internal/domain/search/scope"
	searchuc "github.com/kailas-cloud/kereso/internal/usecase/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	corpus  string
	limit   int
	scope   string
	format  string // "text", "json"
	baseURL string
}

func newSearchCmd(engineOpts *engineOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank a JSON corpus for a query",
		Long: `Rank a JSON corpus the way the /api/ai-search endpoint does.

The corpus file holds the rows of both collections:
  {"posts": [{"id": 1, "title": "...", "slug": "...", "content": "..."}],
   "products": [{"id": "p1", "name": "...", "description": "..."}]}

Examples:
  keresoctl search --corpus corpus.json "nem tudok aludni"
  keresoctl search --corpus corpus.json --type termek --limit 3 magnézium
  keresoctl search --corpus corpus.json --format json torokfájás`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), engineOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.corpus, "corpus", "c", "", "JSON corpus file (required)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", request.DefaultLimit, "Maximum number of results (1..10)")
	cmd.Flags().StringVarP(&opts.scope, "type", "t", string(scope.All), "Collections: minden, cikk, termek")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Site URL used for result links")
	_ = cmd.MarkFlagRequired("corpus")

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, query string, engineOpts *engineOptions, opts searchOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}
	sc := scope.Scope(opts.scope)
	if !sc.IsValid() {
		return fmt.Errorf("unknown type %q (want minden, cikk or termek)", opts.scope)
	}

	corpus, err := loadCorpus(opts.corpus)
	if err != nil {
		return err
	}
	engine, err := engineOpts.engine()
	if err != nil {
		return err
	}

	svc := searchuc.New(corpus, engine, searchuc.Links{
		BaseURL:       opts.baseURL,
		PostPrefix:    "/blog",
		ProductPrefix: "/termek",
	})

	req, err := request.New(query, sc, opts.limit)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := svc.Search(ctx, &req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	hits := resp.Merged(req.Limit())
	if opts.format == "json" {
		return writeSearchJSON(w, &resp, hits)
	}
	return writeSearchText(w, &resp, hits)
}

// fileCorpus serves candidates parsed from a JSON file.
type fileCorpus map[candidate.Kind][]candidate.Candidate

func (c fileCorpus) Recent(_ context.Context, kind candidate.Kind) ([]candidate.Candidate, error) {
	rows, ok := c[kind]
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", domain.ErrNotConfigured, kind)
	}
	return rows, nil
}

func loadCorpus(path string) (fileCorpus, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var raw struct {
		Posts    []map[string]any `json:"posts"`
		Products []map[string]any `json:"products"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	corpus := fileCorpus{
		candidate.Post:    make([]candidate.Candidate, 0, len(raw.Posts)),
		candidate.Product: make([]candidate.Candidate, 0, len(raw.Products)),
	}
	for _, rec := range raw.Posts {
		corpus[candidate.Post] = append(corpus[candidate.Post],
			candidate.FromRecord(candidate.Post, rec, candidate.DefaultPostFields()))
	}
	for _, rec := range raw.Products {
		corpus[candidate.Product] = append(corpus[candidate.Product],
			candidate.FromRecord(candidate.Product, rec, candidate.DefaultProductFields()))
	}
	return corpus, nil
}

func writeSearchText(w io.Writer, resp *result.Response, hits []result.Hit) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", resp.Query)
	if resp.IsFallback() {
		fmt.Fprintf(&b, "No direct match, showing %q (%s)\n", resp.UsedQuery, resp.Cluster)
	}
	if len(hits) == 0 {
		b.WriteString("No results.\n")
	}
	for i := range hits {
		h := &hits[i]
		fmt.Fprintf(&b, "\n%d. [%s] %s (score %d)\n   %s\n", i+1, h.Kind(), h.Title(), h.Score(), h.URL())
		if h.Snippet() != "" {
			fmt.Fprintf(&b, "   %s\n", h.Snippet())
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonHit struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt,omitempty"`
	Snippet string `json:"snippet"`
	Score   int    `json:"score"`
}

type jsonResult struct {
	Query     string    `json:"query"`
	UsedQuery string    `json:"usedQuery"`
	Cluster   string    `json:"cluster,omitempty"`
	Count     int       `json:"count"`
	Results   []jsonHit `json:"results"`
}

func writeSearchJSON(w io.Writer, resp *result.Response, hits []result.Hit) error {
	out := jsonResult{
		Query:     resp.Query,
		UsedQuery: resp.UsedQuery,
		Cluster:   resp.Cluster,
		Count:     len(hits),
		Results:   make([]jsonHit, len(hits)),
	}
	for i := range hits {
		out.Results[i] = jsonHit{
			ID:      hits[i].ID(),
			Type:    string(hits[i].Kind()),
			Title:   hits[i].Title(),
			URL:     hits[i].URL(),
			Excerpt: hits[i].Excerpt(),
			Snippet: hits[i].Snippet(),
			Score:   hits[i].Score(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
