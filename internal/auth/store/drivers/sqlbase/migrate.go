package sqlbase

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies every pending migration in files to driver. Running it
// against an up to date schema is a no-op.
func Migrate(files fs.FS, dbName string, driver database.Driver) error {
	src, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", dbName, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return fmt.Errorf("prepare %s migrations: %w", dbName, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", dbName, err)
	}
	return nil
}
