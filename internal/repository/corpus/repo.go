package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/kereso/internal/domain"
	"github.com/kailas-cloud/kereso/internal/domain/candidate"
)

// DefaultRowLimit caps the rows read per collection and request.
const DefaultRowLimit = 2000

// store is the consumer interface for corpus reads (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Table describes where one collection lives and how its rows map to candidates.
type Table struct {
	Name    string
	OrderBy string
	// Where is an optional SQL predicate, e.g. "status = 'published'".
	Where  string
	Fields candidate.FieldSet
}

// Repo implements usecase/search.CorpusReader over Postgres.
type Repo struct {
	store  store
	tables map[candidate.Kind]Table
	limit  int
}

// New creates a corpus repository. limit <= 0 selects DefaultRowLimit.
func New(s store, tables map[candidate.Kind]Table, limit int) *Repo {
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	return &Repo{store: s, tables: tables, limit: limit}
}

// Recent returns up to limit rows of the collection, newest first.
func (r *Repo) Recent(ctx context.Context, kind candidate.Kind) ([]candidate.Candidate, error) {
	t, ok := r.tables[kind]
	if !ok || t.Name == "" {
		return nil, fmt.Errorf("%w: no table for %s", domain.ErrNotConfigured, kind)
	}

	rows, err := r.store.Query(ctx, selectRecent(t), r.limit)
	if err != nil {
		return nil, domain.NewCorpusError(t.Name, err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, domain.NewCorpusError(t.Name, err)
	}

	out := make([]candidate.Candidate, 0, len(recs))
	for _, rec := range recs {
		out = append(out, candidate.FromRecord(kind, rec, t.Fields))
	}
	return out, nil
}

func selectRecent(t Table) string {
	orderBy := t.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(pgx.Identifier(strings.Split(t.Name, ".")).Sanitize())
	if w := strings.TrimSpace(t.Where); w != "" {
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(pgx.Identifier{orderBy}.Sanitize())
	b.WriteString(" DESC LIMIT $1")
	return b.String()
}
