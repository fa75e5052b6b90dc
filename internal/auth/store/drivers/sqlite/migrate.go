package sqlite

import (
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlbase"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlite/migrations"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
)

// ApplyMigrations brings the schema up to date.
func (s *Store) ApplyMigrations() error {
	driver, err := migratesqlite.WithInstance(s.DB(), &migratesqlite.Config{})
	if err != nil {
		return err
	}
	return sqlbase.Migrate(migrations.Migrations, "sqlite", driver)
}
