package corpus

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/kereso/internal/domain/candidate"
)

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	cols   []string
	data   [][]any
	pos    int
	err    error
	closed bool
}

func newFakeRows(cols []string, data ...[]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, pos: -1}
}

func (f *fakeRows) Close()                        { f.closed = true }
func (f *fakeRows) Err() error                    { return f.err }
func (f *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (f *fakeRows) RawValues() [][]byte           { return nil }
func (f *fakeRows) Conn() *pgx.Conn               { return nil }

func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(f.cols))
	for i, c := range f.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func (f *fakeRows) Next() bool {
	if f.closed || f.err != nil {
		return false
	}
	f.pos++
	return f.pos < len(f.data)
}

func (f *fakeRows) Values() ([]any, error) {
	return f.data[f.pos], nil
}

func (f *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(f)
		}
	}
	for i := range dest {
		if p, ok := dest[i].(*any); ok {
			*p = f.data[f.pos][i]
		}
	}
	return nil
}

// mockStore implements the consumer interface for tests.
type mockStore struct {
	rows    pgx.Rows
	err     error
	lastSQL string
	args    []any
}

func (m *mockStore) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.lastSQL = sql
	m.args = args
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func testTables() map[candidate.Kind]Table {
	return map[candidate.Kind]Table{
		candidate.Post: {
			Name:   "posts",
			Where:  "status = 'published'",
			Fields: candidate.DefaultPostFields(),
		},
		candidate.Product: {
			Name:    "shop.products",
			OrderBy: "created_at",
			Fields:  candidate.DefaultProductFields(),
		},
	}
}

func newTestRepo(t *testing.T, rows pgx.Rows) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{rows: rows}
	return New(ms, testTables(), 0), ms
}
