package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// MySQL error numbers the store maps to sentinels.
const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements Queries over a connection pool or a transaction.  When
// locking is set, scope lookups append a locking clause.
type queries struct {
	db      dbtx
	locking bool
}

// lock returns clause when running inside a transaction and "" otherwise.
func (q *queries) lock(clause string) string {
	if q.locking {
		return " " + clause
	}
	return ""
}

// MySQLStore is the MySQL implementation of Store.
type MySQLStore struct {
	*queries
	db *sql.DB
}

var _ Store = (*MySQLStore)(nil)

// NewMySQLStore returns a Store backed by db.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{queries: &queries{db: db}, db: db}
}

// DB exposes the underlying pool for health checks.
func (s *MySQLStore) DB() *sql.DB { return s.db }

// WithTx runs fn inside a READ COMMITTED transaction.  Row locks taken by
// the lookups in fn, together with the unique keys in the schema, provide
// the isolation the allocation invariants need.
func (s *MySQLStore) WithTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&queries{db: tx, locking: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(mapMySQLError(err), "commit transaction")
	}
	committed = true
	return nil
}

// mapMySQLError maps driver errors to the package sentinels.  Errors that
// are not MySQL server errors are returned unchanged.
func mapMySQLError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch myErr.Number {
	case mysqlDuplicateEntry:
		return errors.Wrap(ErrDuplicate, myErr.Message)
	case mysqlNoReferencedRow:
		return errors.Wrap(ErrNotFound, myErr.Message)
	case mysqlDeadlock, mysqlLockWaitTimeout:
		return errors.Wrap(ErrTxAborted, myErr.Message)
	default:
		return errors.Wrapf(err, "mysql error %d", myErr.Number)
	}
}

// nullString converts an optional string to a nullable column value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr converts a nullable column value back to an optional string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// timePtr converts a nullable DATETIME to an optional UTC time.
func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
