package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv unsets keys for the duration of the test and restores them after.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t,
		"AUTH_ISSUER", "AUTH_DATABASE_DRIVER", "AUTH_ACCESS_TOKEN_TTL", "AUTH_VERIFY_EMAIL_TTL_HOURS",
		"AUTH_CORS_ALLOWED_ORIGINS", "AUTH_KAFKA_BROKERS", "AUTH_BOOTSTRAP_ADMIN_NAME", "PORT",
	)

	cfg := LoadConfig()
	require.Equal(t, "greencity-user", cfg.Issuer)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.VerifyEmailTTL)
	require.Equal(t, []string{"http://localhost:4200", "http://localhost:4205"}, cfg.CORSAllowedOrigins)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "admin", cfg.BootstrapAdminName)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_DATABASE_DRIVER", "postgres")
	t.Setenv("AUTH_DATABASE_URL", "postgres://u:p@localhost:5432/users")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL", "48h")
	t.Setenv("AUTH_VERIFY_EMAIL_TTL_HOURS", "2")
	t.Setenv("AUTH_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("AUTH_CORS_ALLOWED_ORIGINS", "https://greencity.example")
	t.Setenv("HOUSEKEEPING_INTERVAL", "30")

	cfg := LoadConfig()
	require.Equal(t, "postgres", cfg.DatabaseDriver)
	require.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 2*time.Hour, cfg.VerifyEmailTTL)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, []string{"https://greencity.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Minute, cfg.HousekeepingInterval)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("AUTH_ISSUER=from-dotenv\nAUTH_NUM_KEYS=2\n"), 0o600))
	t.Chdir(dir)

	t.Run("loaded outside prod", func(t *testing.T) {
		clearEnv(t, "AUTH_ISSUER", "AUTH_NUM_KEYS")
		t.Setenv("ENV", "dev")

		cfg := LoadConfig()
		require.Equal(t, "from-dotenv", cfg.Issuer)
		require.Equal(t, 2, cfg.NumKeys)
	})

	t.Run("real env wins", func(t *testing.T) {
		clearEnv(t, "AUTH_NUM_KEYS")
		t.Setenv("ENV", "dev")
		t.Setenv("AUTH_ISSUER", "from-env")

		cfg := LoadConfig()
		require.Equal(t, "from-env", cfg.Issuer)
	})

	t.Run("ignored in prod", func(t *testing.T) {
		clearEnv(t, "AUTH_ISSUER", "AUTH_NUM_KEYS")
		t.Setenv("ENV", "prod")

		cfg := LoadConfig()
		require.Equal(t, "greencity-user", cfg.Issuer)
		require.Zero(t, cfg.NumKeys)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabaseDriver:  "sqlite",
			DatabaseFile:    "auth.db",
			KeyStorageMode:  "ephemeral",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			VerifyEmailTTL:  time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, `unknown AUTH_DATABASE_DRIVER "mysql"`},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }, "AUTH_DATABASE_URL is required"},
		{"unknown key mode", func(c *Config) { c.KeyStorageMode = "vault" }, "AUTH_KEY_STORAGE_MODE"},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }, "AUTH_ACCESS_TOKEN_TTL must be positive"},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenTTL = -time.Second }, "AUTH_REFRESH_TOKEN_TTL must be positive"},
		{"zero verify ttl", func(c *Config) { c.VerifyEmailTTL = 0 }, "AUTH_VERIFY_EMAIL_TTL_HOURS must be positive"},
		{"admin email without password", func(c *Config) { c.BootstrapAdminEmail = "root@example.com" }, "must be set together"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewWithSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Issuer:              "greencity-test",
		Algorithm:           "EdDSA",
		NumKeys:             1,
		KeyStorageMode:      "ephemeral",
		DatabaseDriver:      "sqlite",
		DatabaseFile:        filepath.Join(dir, "auth.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		AccessTokenTTL:      time.Minute,
		RefreshTokenTTL:     time.Hour,
		VerifyEmailTTL:      time.Hour,
		LogLevel:            "error",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,

		BootstrapAdminEmail:    "root@example.com",
		BootstrapAdminPassword: "Bootstrap1!",
	}

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	require.NotNil(t, application.Handler())
	require.True(t, application.keyManager.IsReady())

	admin, err := application.db.Users().GetUserByEmail(t.Context(), "root@example.com")
	require.NoError(t, err)
	require.Equal(t, "ADMIN", string(admin.Role))
}
