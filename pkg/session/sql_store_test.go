package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

type recordedExec struct {
	query string
	args  []driver.NamedValue
}

type recordedQuery struct {
	query string
	args  []driver.NamedValue
}

type fakeSQLRecorder struct {
	mu sync.Mutex

	execs   []recordedExec
	queries []recordedQuery

	// Query responses returned by QueryContext, in order.
	queryResponses []fakeRowsResult
}

type fakeRowsResult struct {
	columns []string
	rows    [][]driver.Value
}

func (r *fakeSQLRecorder) recordExec(query string, args []driver.NamedValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execs = append(r.execs, recordedExec{query: normalizeQuery(query), args: append([]driver.NamedValue(nil), args...)})
}

func (r *fakeSQLRecorder) recordQuery(query string, args []driver.NamedValue) fakeRowsResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, recordedQuery{query: normalizeQuery(query), args: append([]driver.NamedValue(nil), args...)})
	if len(r.queryResponses) == 0 {
		return fakeRowsResult{columns: []string{"data"}, rows: nil}
	}
	resp := r.queryResponses[0]
	r.queryResponses = r.queryResponses[1:]
	return resp
}

type fakeSQLDriver struct{}

var (
	fakeSQLRegisterOnce sync.Once
	fakeSQLMu           sync.Mutex
	fakeSQLRecorders    = map[string]*fakeSQLRecorder{}
)

func (d fakeSQLDriver) Open(name string) (driver.Conn, error) {
	fakeSQLMu.Lock()
	rec := fakeSQLRecorders[name]
	fakeSQLMu.Unlock()
	if rec == nil {
		return nil, fmt.Errorf("unknown fake db name: %s", name)
	}
	return &fakeSQLConn{rec: rec}, nil
}

type fakeSQLConn struct {
	rec *fakeSQLRecorder
}

func (c *fakeSQLConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeSQLStmt{rec: c.rec, query: query}, nil
}
func (c *fakeSQLConn) Close() error              { return nil }
func (c *fakeSQLConn) Begin() (driver.Tx, error) { return fakeSQLTx{}, nil }

func (c *fakeSQLConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.rec.recordExec(query, args)
	return driver.RowsAffected(1), nil
}

func (c *fakeSQLConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	resp := c.rec.recordQuery(query, args)
	return &fakeSQLRows{columns: resp.columns, rows: resp.rows}, nil
}

type fakeSQLTx struct{}

func (fakeSQLTx) Commit() error   { return nil }
func (fakeSQLTx) Rollback() error { return nil }

type fakeSQLStmt struct {
	rec   *fakeSQLRecorder
	query string
}

func (s *fakeSQLStmt) Close() error  { return nil }
func (s *fakeSQLStmt) NumInput() int { return -1 }
func (s *fakeSQLStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.rec.recordExec(s.query, namedFromValues(args))
	return driver.RowsAffected(1), nil
}
func (s *fakeSQLStmt) Query(args []driver.Value) (driver.Rows, error) {
	resp := s.rec.recordQuery(s.query, namedFromValues(args))
	return &fakeSQLRows{columns: resp.columns, rows: resp.rows}, nil
}

func namedFromValues(values []driver.Value) []driver.NamedValue {
	out := make([]driver.NamedValue, 0, len(values))
	for i, v := range values {
		out = append(out, driver.NamedValue{Ordinal: i + 1, Value: v})
	}
	return out
}

type fakeSQLRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *fakeSQLRows) Columns() []string { return r.columns }
func (r *fakeSQLRows) Close() error      { return nil }
func (r *fakeSQLRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func openFakeDB(t *testing.T) (*sql.DB, *fakeSQLRecorder) {
	t.Helper()

	fakeSQLRegisterOnce.Do(func() {
		sql.Register("lumen_fake_sql", fakeSQLDriver{})
	})

	rec := &fakeSQLRecorder{}
	name := t.Name()

	fakeSQLMu.Lock()
	fakeSQLRecorders[name] = rec
	fakeSQLMu.Unlock()

	t.Cleanup(func() {
		fakeSQLMu.Lock()
		delete(fakeSQLRecorders, name)
		fakeSQLMu.Unlock()
	})

	db, err := sql.Open("lumen_fake_sql", name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, rec
}

func newTestSQLStore(t *testing.T, db *sql.DB, dialect Dialect) *SQLStore {
	t.Helper()
	store := NewSQLStore(db, WithDialect(dialect), WithSQLSweepInterval(24*time.Hour))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStorePostgresQueries(t *testing.T) {
	db, rec := openFakeDB(t)
	store := newTestSQLStore(t, db, DialectPostgres)

	ctx := context.Background()
	expiresAt := time.Now().Add(time.Minute)

	if err := store.Save(ctx, "s1", []byte("data"), expiresAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec.mu.Lock()
	rec.queryResponses = append(rec.queryResponses, fakeRowsResult{
		columns: []string{"data"},
		rows:    [][]driver.Value{{[]byte("blob")}},
	})
	rec.mu.Unlock()

	loaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(loaded) != "blob" {
		t.Fatalf("Load got %q, want %q", loaded, "blob")
	}

	if err := store.Touch(ctx, "s1", expiresAt.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if len(rec.execs) != 3 {
		t.Fatalf("exec count got %d, want 3", len(rec.execs))
	}
	if q := rec.execs[0].query; !strings.Contains(q, "INSERT INTO lumen_sessions") || !strings.Contains(q, "ON CONFLICT (id) DO UPDATE") {
		t.Errorf("Save query: %q", q)
	}
	if q := rec.execs[1].query; !strings.Contains(q, "UPDATE lumen_sessions SET expires_at = $1") {
		t.Errorf("Touch query: %q", q)
	}
	if q := rec.execs[2].query; !strings.Contains(q, "DELETE FROM lumen_sessions WHERE id = $1") {
		t.Errorf("Delete query: %q", q)
	}
	if len(rec.queries) != 1 {
		t.Fatalf("query count got %d, want 1", len(rec.queries))
	}
	if q := rec.queries[0].query; !strings.Contains(q, "WHERE id = $1 AND expires_at > NOW()") {
		t.Errorf("Load query: %q", q)
	}
}

func TestSQLStoreDialectQueries(t *testing.T) {
	cases := []struct {
		name    string
		dialect Dialect
		save    string
		load    string
	}{
		{"mysql", DialectMySQL, "ON DUPLICATE KEY UPDATE", "expires_at > NOW()"},
		{"sqlite", DialectSQLite, "INSERT OR REPLACE INTO", "expires_at > datetime('now')"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := buildQueries("lumen_sessions", tc.dialect)
			if !strings.Contains(normalizeQuery(q.save), tc.save) {
				t.Errorf("save query: %q", q.save)
			}
			if !strings.Contains(q.load, tc.load) {
				t.Errorf("load query: %q", q.load)
			}
			if strings.Contains(q.save, "$1") {
				t.Errorf("save query should not use postgres placeholders: %q", q.save)
			}
		})
	}
}

func TestSQLStoreLoadNoRows(t *testing.T) {
	db, rec := openFakeDB(t)
	store := newTestSQLStore(t, db, DialectSQLite)

	rec.mu.Lock()
	rec.queryResponses = append(rec.queryResponses, fakeRowsResult{columns: []string{"data"}, rows: nil})
	rec.mu.Unlock()

	data, err := store.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("got %v, want nil", data)
	}
}

func TestSQLStoreSweepAndCreateTable(t *testing.T) {
	db, rec := openFakeDB(t)
	store := newTestSQLStore(t, db, DialectMySQL)

	store.sweep()

	if err := store.CreateTable(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if len(rec.execs) != 3 {
		t.Fatalf("exec count got %d, want 3", len(rec.execs))
	}
	if q := rec.execs[0].query; !strings.Contains(q, "DELETE FROM lumen_sessions WHERE expires_at < NOW()") {
		t.Errorf("sweep query: %q", q)
	}
	if q := rec.execs[1].query; !strings.Contains(q, "CREATE TABLE IF NOT EXISTS lumen_sessions") {
		t.Errorf("CreateTable query: %q", q)
	}
	if q := rec.execs[2].query; !strings.Contains(q, "CREATE INDEX idx_lumen_sessions_expires") {
		t.Errorf("index query: %q", q)
	}
}

func TestSQLStoreCustomTable(t *testing.T) {
	db, rec := openFakeDB(t)
	store := NewSQLStore(db, WithTable("app_sessions"), WithSQLSweepInterval(24*time.Hour))
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if q := rec.execs[0].query; !strings.Contains(q, "DELETE FROM app_sessions") {
		t.Errorf("Delete query: %q", q)
	}
}

func TestSQLStoreClose(t *testing.T) {
	db, _ := openFakeDB(t)
	store := NewSQLStore(db, WithSQLSweepInterval(24*time.Hour))

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "s", []byte("x"), time.Now().Add(time.Minute)); err == nil {
		t.Error("Save after Close should fail")
	}
	if _, err := store.Load(ctx, "s"); err == nil {
		t.Error("Load after Close should fail")
	}
	if err := store.Delete(ctx, "s"); err == nil {
		t.Error("Delete after Close should fail")
	}
	if err := store.Touch(ctx, "s", time.Now()); err == nil {
		t.Error("Touch after Close should fail")
	}
}
