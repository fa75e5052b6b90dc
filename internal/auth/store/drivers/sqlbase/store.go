// Package sqlbase holds the database/sql repositories shared by the SQLite
// and PostgreSQL drivers. Queries are written with "?" placeholders and
// rebound per dialect.
package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/store"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect captures what differs between drivers.
type Dialect struct {
	Name string
	// Numbered placeholders ($1, $2, ...) instead of "?".
	Numbered bool
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation func(error) bool
}

// Rebind rewrites "?" placeholders for the dialect.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) mapWriteErr(err error) error {
	if err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// Store implements everything in store.Store except ApplyMigrations, which
// each driver supplies.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d}
}

func (s *Store) DB() *sql.DB      { return s.db }
func (s *Store) Dialect() Dialect { return s.dialect }
func (s *Store) Close() error     { return s.db.Close() }
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, dialect: s.dialect}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users             { return &usersRepo{db: s.db, d: s.dialect} }
func (s *Store) OwnSecurity() store.OwnSecurity { return &ownSecurityRepo{db: s.db, d: s.dialect} }
func (s *Store) VerifyEmails() store.VerifyEmails {
	return &verifyEmailsRepo{db: s.db, d: s.dialect}
}
func (s *Store) RestorePasswordEmails() store.RestorePasswordEmails {
	return &restoreEmailsRepo{db: s.db, d: s.dialect}
}
func (s *Store) DeactivationReasons() store.DeactivationReasons {
	return &reasonsRepo{db: s.db, d: s.dialect}
}
func (s *Store) SigningKeys() store.SigningKeys { return &signingKeysRepo{db: s.db, d: s.dialect} }

type txStore struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the pool stays open.
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx, d: t.dialect} }
func (t *txStore) OwnSecurity() store.OwnSecurity { return &ownSecurityRepo{db: t.tx, d: t.dialect} }
func (t *txStore) VerifyEmails() store.VerifyEmails {
	return &verifyEmailsRepo{db: t.tx, d: t.dialect}
}
func (t *txStore) RestorePasswordEmails() store.RestorePasswordEmails {
	return &restoreEmailsRepo{db: t.tx, d: t.dialect}
}
func (t *txStore) DeactivationReasons() store.DeactivationReasons {
	return &reasonsRepo{db: t.tx, d: t.dialect}
}
func (t *txStore) SigningKeys() store.SigningKeys { return &signingKeysRepo{db: t.tx, d: t.dialect} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// ts normalises times so SQLite's textual ordering matches time ordering
// and both drivers keep the same precision.
func ts(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		v := nt.Time
		return &v
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ts(*t), Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}

func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
