package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/notify"
	"github.com/aussiebroadwan/greencity/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testIssuer = "greencity-test"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	store  *sqlite.Store
	km     *jwtx.KeyManager
	tokens *TokenService
	mail   *notify.Recorder
	own    *OwnSecurityService
	users  *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    testIssuer,
		NumKeys:   1,
	})
	require.NoError(t, err)

	tokens := &TokenService{KeyManager: km, Issuer: testIssuer}
	rec := &notify.Recorder{}
	email := &EmailService{Publisher: rec}

	return &testEnv{
		store:  st,
		km:     km,
		tokens: tokens,
		mail:   rec,
		own:    &OwnSecurityService{Store: st, Tokens: tokens, Email: email},
		users:  &UserService{Store: st, Email: email},
	}
}

// seedUser stores a user directly. An empty password leaves the user
// without an own security row.
func (e *testEnv) seedUser(t *testing.T, email, password string, role domain.Role, status domain.UserStatus) domain.User {
	t.Helper()
	ctx := context.Background()

	key, err := GenerateTokenKey()
	require.NoError(t, err)
	u := domain.User{
		UUID:            uuid.NewString(),
		Email:           email,
		Name:            "Test " + string(role),
		Role:            role,
		Status:          status,
		RefreshTokenKey: key,
		Language:        domain.LangEN,
		RegisteredAt:    time.Now(),
	}
	u.ID, err = e.store.Users().CreateUser(ctx, u)
	require.NoError(t, err)

	if password != "" {
		hash, err := cryptox.HashPassword(password)
		require.NoError(t, err)
		require.NoError(t, e.store.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{
			UserID: u.ID, PasswordHash: hash, UpdatedAt: time.Now(),
		}))
	}
	return u
}

// lastEvent returns the most recent mail of type typ sent to email.
func (e *testEnv) lastEvent(t *testing.T, typ notify.EventType, email string) notify.Event {
	t.Helper()
	events := e.mail.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == typ && events[i].Email == email {
			return events[i]
		}
	}
	t.Fatalf("no %s event for %s", typ, email)
	return notify.Event{}
}
