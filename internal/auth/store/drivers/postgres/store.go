package postgres

import (
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlbase"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

// Dialect is the PostgreSQL flavour of the shared repositories.
var Dialect = sqlbase.Dialect{
	Name:              "postgres",
	Numbered:          true,
	IsUniqueViolation: isUniqueViolation,
}

type Store struct {
	*sqlbase.Store
}

var _ store.Store = (*Store)(nil)

// NewStore opens a pool for a postgres:// URL. The connection is not
// checked until first use; call Ping to fail fast.
func NewStore(url string) (*Store, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	return &Store{Store: sqlbase.New(db, Dialect)}, nil
}

// FromDB wraps an existing pool.
func FromDB(db *sql.DB) *Store {
	return &Store{Store: sqlbase.New(db, Dialect)}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
