// Package store persists users and the resources they own. Every resource
// query is filtered by the owning user id; a row that exists but belongs to
// someone else is reported exactly like a row that does not exist.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrInvalidStatus  = errors.New("invalid assignment status")
)

// PersistenceError wraps any database failure that has no more specific meaning.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// Store is the ownership-scoped persistence layer. It is safe for concurrent
// use; the handle decides how writes serialize.
type Store struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now, newID: uuid.NewString}
}

// timestamp returns the current time in the precision every backend keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// q rewrites ? placeholders for the active driver.
func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return persistence("begin tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return persistence("commit tx", err)
	}
	return nil
}

// insert runs an INSERT and treats zero affected rows as a failure.
func (s *Store) insert(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return persistence(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistence(op, err)
	}
	if n == 0 {
		return persistence(op, errors.New("no rows inserted"))
	}
	return nil
}

// deleteOwned removes one owned row and reports whether anything matched.
func (s *Store) deleteOwned(ctx context.Context, table, id, ownerID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM `+table+` WHERE id = ? AND user_id = ?`), id, ownerID)
	if err != nil {
		return false, persistence("delete "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistence("delete "+table, err)
	}
	return n > 0, nil
}

// update collects SET clauses for a partial update.
type update struct {
	sets []string
	args []any
}

func (u *update) set(column string, value any) {
	u.sets = append(u.sets, column+" = ?")
	u.args = append(u.args, value)
}

func (u *update) empty() bool {
	return len(u.sets) == 0
}

// apply runs the UPDATE inside tx scoped to id and owner. Zero rows means the
// row is missing or not owned, both reported as ErrNotFound.
func (u *update) apply(ctx context.Context, tx *sqlx.Tx, table, id, ownerID string) error {
	query := tx.Rebind(`UPDATE ` + table + ` SET ` + strings.Join(u.sets, ", ") + ` WHERE id = ? AND user_id = ?`)
	res, err := tx.ExecContext(ctx, query, append(u.args, id, ownerID)...)
	if err != nil {
		return persistence("update "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistence("update "+table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// getOwned loads one row into dest or returns ErrNotFound.
func getOwned(ctx context.Context, q queryer, dest any, table, columns, id, ownerID string) error {
	query := q.Rebind(`SELECT ` + columns + ` FROM ` + table + ` WHERE id = ? AND user_id = ?`)
	err := sqlx.GetContext(ctx, q, dest, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return persistence("get "+table, err)
	}
	return nil
}

// optional turns blank strings into NULL.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
