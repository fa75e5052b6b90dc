package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestKeyRotation verifies the key rotation flow:
// 1. Sign in as admin
// 2. List initial keys (exactly 1)
// 3. Rotate without retiring (2 active)
// 4. Retire the first key by kid
// 5. Rotate with retire_existing (1 active)
// 6. Tokens signed by retired keys still verify
func TestKeyRotation(t *testing.T) {
	e := setupService(t)
	ctx := t.Context()
	session := e.adminSession(t)

	initial, err := session.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, initial, 1, "should start with a single key")
	require.NotEmpty(t, initial[0].Kid)
	require.Equal(t, "EdDSA", initial[0].Algorithm)
	require.Nil(t, initial[0].RetiredAt)

	rotated, err := session.RotateKey(ctx, authsdk.RotateKeyRequest{})
	require.NoError(t, err)
	require.NotEqual(t, initial[0].Kid, rotated.NewKey.Kid)
	require.Empty(t, rotated.RetiredKeys)
	require.Equal(t, 2, rotated.ActiveKeys)

	keys, err := session.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	require.NoError(t, session.RetireKey(ctx, initial[0].Kid))

	keys, err = session.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1, "ephemeral mode lists active keys only")
	require.Equal(t, rotated.NewKey.Kid, keys[0].Kid)

	final, err := session.RotateKey(ctx, authsdk.RotateKeyRequest{RetireExisting: true})
	require.NoError(t, err)
	require.Len(t, final.RetiredKeys, 1)
	require.Equal(t, 1, final.ActiveKeys)

	// The admin token was signed by the first key.
	_, err = session.GetCurrentUser(ctx)
	require.NoError(t, err, "retired keys keep verifying")

	jwks, err := e.Client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 3, "JWKS publishes retired keys too")

	err = session.RetireKey(ctx, final.NewKey.Kid)
	requireAPIError(t, err, http.StatusConflict, "")
}

// TestPersistentKeysSurviveRestart signs in, restarts the service on the
// same database and checks the old token is still accepted.
func TestPersistentKeysSurviveRestart(t *testing.T) {
	e := setupService(t, withPersistentKeys())
	ctx := t.Context()

	session := e.adminSession(t)
	before, err := session.ListKeys(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)
	require.NotEmpty(t, before[0].ID, "persisted keys carry a ULID")

	rotated, err := session.RotateKey(ctx, authsdk.RotateKeyRequest{RetireExisting: true})
	require.NoError(t, err)
	require.Equal(t, 1, rotated.ActiveKeys)

	e.restart(t, "persistent")
	revived := e.Client.NewSessionFromTokens(session.AccessToken(), session.RefreshToken())

	me, err := revived.GetCurrentUser(ctx)
	require.NoError(t, err, "tokens from a retired persisted key verify after restart")
	require.Equal(t, adminEmail, me.Email)

	after, err := revived.ListKeys(ctx)
	require.NoError(t, err)
	var retired, active int
	for _, k := range after {
		if k.RetiredAt != nil {
			retired++
			continue
		}
		active++
		require.Equal(t, rotated.NewKey.Kid, k.Kid, "the active key is reloaded, not regenerated")
	}
	require.Equal(t, 1, active)
	require.Equal(t, 1, retired)

	require.NoError(t, revived.Refresh(ctx), "refresh tokens survive a restart")
}
