// Package mysqlstore implements a MySQL-backed log store. Each category uses
// its own table; rows are ordered by an auto-increment sequence so the head
// of the table is always the oldest pending entry.
package mysqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/plexsphere/logsync/internal/logstore"
)

// mysqlErrNoSuchTable is ER_NO_SUCH_TABLE.
const mysqlErrNoSuchTable = 1146

// Store is a MySQL-backed store for entries of type E, encoded as JSON.
type Store[E any] struct {
	db      *sql.DB
	table   string
	queries queries
}

// New returns a Store over table. The table name is validated but not created;
// call EnsureSchema to create it.
func New[E any](db *sql.DB, table string) (*Store[E], error) {
	if db == nil {
		return nil, ErrDBRequired
	}
	table, err := sanitizeTableName(table)
	if err != nil {
		return nil, err
	}
	return &Store[E]{db: db, table: table, queries: newQueries(table)}, nil
}

// Open parses dsn and opens a connection pool. parseTime is forced on.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysqlstore: connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// ParseDSN validates a go-sql-driver DSN.
func ParseDSN(dsn string) (*mysql.Config, error) {
	if dsn == "" {
		return nil, ErrDSNRequired
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysqlstore: parse dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, ErrDatabaseRequired
	}
	return cfg, nil
}

// EnsureSchema creates the table if it does not exist.
func (s *Store[E]) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.queries.create); err != nil {
		return fmt.Errorf("mysqlstore: create %s: %w", s.table, err)
	}
	return nil
}

// Append inserts entries at the tail in one transaction.
func (s *Store[E]) Append(ctx context.Context, entries ...E) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap("begin", err)
	}
	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("mysqlstore: marshal entry: %w", err)
		}
		if _, err := tx.ExecContext(ctx, s.queries.insert, payload); err != nil {
			_ = tx.Rollback()
			return s.wrap("insert", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.wrap("commit", err)
	}
	return nil
}

// ListPending returns all entries ordered by sequence, oldest first.
func (s *Store[E]) ListPending(ctx context.Context) ([]E, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.selectPending)
	if err != nil {
		return nil, s.wrap("select", err)
	}
	defer rows.Close()

	var entries []E
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, s.wrap("scan", err)
		}
		var e E
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("mysqlstore: decode %s row: %w", s.table, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("iterate", err)
	}
	return entries, nil
}

// RemoveOldest deletes the row with the lowest sequence.
func (s *Store[E]) RemoveOldest(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, s.queries.deleteOldest)
	if err != nil {
		return s.wrap("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.wrap("rows affected", err)
	}
	if n == 0 {
		return logstore.ErrEmpty
	}
	return nil
}

// Count returns the number of pending rows.
func (s *Store[E]) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.queries.count).Scan(&n); err != nil {
		return 0, s.wrap("count", err)
	}
	return n, nil
}

func (s *Store[E]) wrap(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrNoSuchTable {
		return fmt.Errorf("mysqlstore: %s %s: %w: %w", op, s.table, ErrSchemaMissing, err)
	}
	return fmt.Errorf("mysqlstore: %s %s: %w", op, s.table, err)
}
