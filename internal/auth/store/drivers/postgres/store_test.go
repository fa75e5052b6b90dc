package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/greencity/internal/auth/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres and returns its URL.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "greencity",
				"POSTGRES_PASSWORD": "greencity",
				"POSTGRES_DB":       "greencity",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://greencity:greencity@%s:%s/greencity?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	url := startPostgres(t)

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := postgres.NewStore(url)
		require.NoError(t, err)
		require.NoError(t, s.Ping(t.Context()))
		require.NoError(t, s.ApplyMigrations())

		// Each subtest starts from empty tables.
		_, err = s.DB().ExecContext(t.Context(), `TRUNCATE users, signing_keys RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return s
	})
}
