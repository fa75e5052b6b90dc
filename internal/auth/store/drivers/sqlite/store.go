package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlbase"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Pragmas applied to every pooled connection.
const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Dialect is the SQLite flavour of the shared repositories.
var Dialect = sqlbase.Dialect{
	Name:              "sqlite",
	IsUniqueViolation: isUniqueViolation,
}

type Store struct {
	*sqlbase.Store
}

var _ store.Store = (*Store)(nil)

// NewStore opens the database at dsn, which is a file path or ":memory:".
func NewStore(dsn string) (*Store, error) {
	full := dsn
	if strings.Contains(full, "?") {
		full += "&" + pragmas
	} else {
		full += "?" + pragmas
	}

	db, err := sql.Open("sqlite", full)
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" is a separate database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	return &Store{Store: sqlbase.New(db, Dialect)}, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
