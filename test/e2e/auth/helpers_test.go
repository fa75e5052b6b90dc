package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/app"
	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for user service end-to-end tests.
 * Each test gets its own postgres container and an in-process service
 * served over a real listener.
 */

const (
	adminEmail    = "admin@greencity.test"
	adminName     = "Administrator"
	adminPassword = "Admin123!"

	userPassword = "Secret123!"
)

var rateLimitKeys = []string{
	"RATELIMIT_STRICT_REQUESTS", "RATELIMIT_STRICT_BURST",
	"RATELIMIT_MODERATE_REQUESTS", "RATELIMIT_MODERATE_BURST",
	"RATELIMIT_LENIENT_REQUESTS", "RATELIMIT_LENIENT_BURST",
	"RATELIMIT_PUBLIC_REQUESTS", "RATELIMIT_PUBLIC_BURST",
}

// env is a running service plus what the tests need to drive it.
type env struct {
	BaseURL string
	Client  *authsdk.SDKClient
	Mail    *notify.Recorder

	dbURL string
	dir   string
	app   *app.Application
	srv   *httptest.Server
}

type envOptions struct {
	keyMode       string
	defaultLimits bool
}

type envOption func(*envOptions)

// withPersistentKeys stores signing keys in postgres instead of memory.
func withPersistentKeys() envOption {
	return func(o *envOptions) { o.keyMode = "persistent" }
}

// withDefaultRateLimits keeps the production rate limit profiles.
func withDefaultRateLimits() envOption {
	return func(o *envOptions) { o.defaultLimits = true }
}

// startPostgres runs a throwaway postgres and returns its URL.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("end-to-end test skipped in -short mode")
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

// setupService starts postgres and the service on top of it.
func setupService(t *testing.T, opts ...envOption) *env {
	t.Helper()

	o := envOptions{keyMode: "ephemeral"}
	for _, opt := range opts {
		opt(&o)
	}

	for _, k := range rateLimitKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	if !o.defaultLimits {
		for _, k := range rateLimitKeys {
			t.Setenv(k, "10000")
		}
	}

	e := &env{
		dbURL: startPostgres(t),
		dir:   t.TempDir(),
		Mail:  &notify.Recorder{},
	}
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "master.key"), []byte("e2e-master-key-material"), 0o600))

	e.start(t, o.keyMode)
	return e
}

func (e *env) config(keyMode string) app.Config {
	return app.Config{
		Issuer:         "greencity-e2e",
		Algorithm:      "EdDSA",
		NumKeys:        1,
		KeyStorageMode: keyMode,
		KeyGracePeriod: 24 * time.Hour,
		MasterKeyPath:  filepath.Join(e.dir, "master.key"),
		DatabaseDriver: "postgres",
		DatabaseURL:    e.dbURL,
		PepperFile:     filepath.Join(e.dir, "pepper"),

		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		VerifyEmailTTL:  time.Hour,

		CORSAllowedOrigins: []string{"http://localhost:4200"},

		BootstrapAdminEmail:    adminEmail,
		BootstrapAdminName:     adminName,
		BootstrapAdminPassword: adminPassword,

		ShutdownGracePeriod: time.Second,
	}
}

func (e *env) start(t *testing.T, keyMode string) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.New(e.config(keyMode), app.WithPublisher(e.Mail), app.WithLogger(logger))
	require.NoError(t, err)

	e.app = a
	e.srv = httptest.NewServer(a.Handler())
	e.BaseURL = e.srv.URL
	e.Client = authsdk.NewSDKClient(e.BaseURL)

	t.Cleanup(e.stop)
}

func (e *env) stop() {
	if e.srv != nil {
		e.srv.Close()
		e.srv = nil
	}
	if e.app != nil {
		_ = e.app.Close()
		e.app = nil
	}
}

// restart stops the service and starts a fresh one on the same database.
func (e *env) restart(t *testing.T, keyMode string) {
	t.Helper()
	e.stop()
	e.start(t, keyMode)
}

// adminSession signs in as the bootstrap admin.
func (e *env) adminSession(t *testing.T) *authsdk.Session {
	t.Helper()
	s, err := e.Client.AuthenticateWithPassword(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err, "admin sign in")
	return s
}

// signUpVerified registers email, follows the verification mail and signs in.
func (e *env) signUpVerified(t *testing.T, name, email string) (*authsdk.SuccessSignUp, *authsdk.Session) {
	t.Helper()
	ctx := t.Context()

	created, err := e.Client.SignUp(ctx, authsdk.SignUpRequest{Name: name, Email: email, Password: userPassword}, "en")
	require.NoError(t, err)

	mail := e.lastMail(t, notify.EventVerifyEmail, created.Email)
	require.NoError(t, e.Client.VerifyEmail(ctx, created.UserID, mail.Token))

	s, err := e.Client.AuthenticateWithPassword(ctx, created.Email, userPassword)
	require.NoError(t, err)
	return created, s
}

// lastMail returns the newest mail of typ sent to email.
func (e *env) lastMail(t *testing.T, typ notify.EventType, email string) notify.Event {
	t.Helper()
	events := e.Mail.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == typ && events[i].Email == email {
			return events[i]
		}
	}
	t.Fatalf("no %s mail for %s", typ, email)
	return notify.Event{}
}

// requireAPIError checks the status and, when name is set, the error name.
func requireAPIError(t *testing.T, err error, status int, name string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, authsdk.StatusCode(err), "error: %v", err)
	if name != "" {
		require.True(t, authsdk.IsName(err, name), "want %s, got %v", name, err)
	}
}
