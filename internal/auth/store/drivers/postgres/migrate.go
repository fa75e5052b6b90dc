package postgres

import (
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/postgres/migrations"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlbase"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
)

// ApplyMigrations brings the schema up to date. Concurrent replicas are
// serialized by the driver's advisory lock.
func (s *Store) ApplyMigrations() error {
	driver, err := migratepgx.WithInstance(s.DB(), &migratepgx.Config{})
	if err != nil {
		return err
	}
	return sqlbase.Migrate(migrations.Migrations, "pgx5", driver)
}
