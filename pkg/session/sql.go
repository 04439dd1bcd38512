package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect selects the SQL flavor for query generation.
type Dialect int

const (
	// DialectPostgres uses $n placeholders and NOW().
	DialectPostgres Dialect = iota
	// DialectMySQL uses ? placeholders and NOW().
	DialectMySQL
	// DialectSQLite uses ? placeholders and datetime('now').
	DialectSQLite
)

// SQLStore persists sessions in a relational database through
// database/sql. It works with any driver for the supported dialects.
// The expected schema (Postgres shown) is:
//
//	CREATE TABLE lumen_sessions (
//	    id VARCHAR(64) PRIMARY KEY,
//	    data BYTEA NOT NULL,
//	    expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
//	    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
//	);
//
// CreateTable builds it for you in development.
type SQLStore struct {
	db      *sql.DB
	table   string
	dialect Dialect
	queries sqlQueries
	closed  bool
	done    chan struct{}
}

// sqlQueries holds the dialect-specific statements, built once.
type sqlQueries struct {
	save   string
	load   string
	delete string
	touch  string
	sweep  string
}

// SQLStoreOption configures an SQLStore.
type SQLStoreOption func(*sqlStoreConfig)

type sqlStoreConfig struct {
	table         string
	dialect       Dialect
	sweepInterval time.Duration
}

// WithTable sets the session table name. Default "lumen_sessions".
func WithTable(name string) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.table = name
	}
}

// WithDialect sets the SQL dialect. Default DialectPostgres.
func WithDialect(d Dialect) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.dialect = d
	}
}

// WithSQLSweepInterval sets how often expired rows are removed.
// Default: 5 minutes.
func WithSQLSweepInterval(d time.Duration) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.sweepInterval = d
	}
}

// NewSQLStore creates a SQL-backed store and starts its sweeper. The
// *sql.DB is borrowed: Close does not close it.
func NewSQLStore(db *sql.DB, opts ...SQLStoreOption) *SQLStore {
	cfg := &sqlStoreConfig{
		table:         "lumen_sessions",
		dialect:       DialectPostgres,
		sweepInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &SQLStore{
		db:      db,
		table:   cfg.table,
		dialect: cfg.dialect,
		queries: buildQueries(cfg.table, cfg.dialect),
		done:    make(chan struct{}),
	}
	go s.sweepLoop(cfg.sweepInterval)
	return s
}

func buildQueries(table string, dialect Dialect) sqlQueries {
	now := "NOW()"
	if dialect == DialectSQLite {
		now = "datetime('now')"
	}

	var save string
	switch dialect {
	case DialectPostgres:
		save = fmt.Sprintf(`INSERT INTO %s (id, data, expires_at, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (id) DO UPDATE SET
				data = EXCLUDED.data,
				expires_at = EXCLUDED.expires_at,
				updated_at = NOW()`, table)
	case DialectMySQL:
		save = fmt.Sprintf(`INSERT INTO %s (id, data, expires_at, updated_at)
			VALUES (?, ?, ?, NOW())
			ON DUPLICATE KEY UPDATE
				data = VALUES(data),
				expires_at = VALUES(expires_at),
				updated_at = NOW()`, table)
	case DialectSQLite:
		save = fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, data, expires_at, updated_at)
			VALUES (?, ?, ?, datetime('now'))`, table)
	}

	p1, p2 := "?", "?"
	if dialect == DialectPostgres {
		p1, p2 = "$1", "$2"
	}

	return sqlQueries{
		save:   save,
		load:   fmt.Sprintf(`SELECT data FROM %s WHERE id = %s AND expires_at > %s`, table, p1, now),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, table, p1),
		touch:  fmt.Sprintf(`UPDATE %s SET expires_at = %s, updated_at = %s WHERE id = %s`, table, p1, now, p2),
		sweep:  fmt.Sprintf(`DELETE FROM %s WHERE expires_at < %s`, table, now),
	}
}

func (s *SQLStore) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	if s.closed {
		return ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx, s.queries.save, id, data, expiresAt)
	return err
}

func (s *SQLStore) Load(ctx context.Context, id string) ([]byte, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, s.queries.load, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if s.closed {
		return ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx, s.queries.delete, id)
	return err
}

func (s *SQLStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	if s.closed {
		return ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx, s.queries.touch, expiresAt, id)
	return err
}

// Close stops the sweeper. The database handle stays open since it may
// be shared with the rest of the application.
func (s *SQLStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return nil
}

func (s *SQLStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *SQLStore) sweep() {
	if s.closed {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.db.ExecContext(ctx, s.queries.sweep)
}

// CreateTable creates the session table and its expiry index if they
// do not exist. Convenience for development and tests.
func (s *SQLStore) CreateTable(ctx context.Context) error {
	var query string
	switch s.dialect {
	case DialectPostgres:
		query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			data BYTEA NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`, s.table)
	case DialectMySQL:
		query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			data BLOB NOT NULL,
			expires_at DATETIME NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`, s.table)
	case DialectSQLite:
		query = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expires_at TEXT NOT NULL,
			updated_at TEXT DEFAULT (datetime('now'))
		)`, s.table)
	}

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return err
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_expires ON %s(expires_at)`, s.table, s.table)
	if s.dialect == DialectMySQL {
		// MySQL has no IF NOT EXISTS for indexes; a duplicate is fine.
		index = fmt.Sprintf(`CREATE INDEX idx_%s_expires ON %s(expires_at)`, s.table, s.table)
	}
	s.db.ExecContext(ctx, index)
	return nil
}
