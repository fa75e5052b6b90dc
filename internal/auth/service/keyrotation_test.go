package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestKeyRotationEphemeral(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedUser(t, "k@example.com", goodPassword, domain.RoleUser, domain.StatusActivated)

	before := signIn(t, env, "k@example.com")
	oldKid := env.km.GetSigners()[0].KID()

	svc := &KeyRotationService{KeyManager: env.km}
	res, err := svc.RotateKey(ctx, RotateKeyRequest{RetireExisting: true})
	require.NoError(t, err)
	require.Equal(t, 1, res.ActiveKeys)
	require.Len(t, res.RetiredKeys, 1)
	require.Equal(t, oldKid, res.RetiredKeys[0].Kid)
	require.NotEqual(t, oldKid, res.NewKey.Kid)
	require.Empty(t, res.NewKey.PrivateKeyEncrypted)

	// Tokens signed by the retired key still verify.
	_, err = env.tokens.ParseAccessToken(before.AccessToken)
	require.NoError(t, err)

	keys, err := svc.ListSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, res.NewKey.Kid, keys[0].Kid)

	require.Error(t, svc.RetireKey(ctx, res.NewKey.Kid), "last signer must stay")
}

func TestKeyRotationPersistent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	km, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
		Store:     store.NewKeyStoreAdapter(env.store),
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    testIssuer,
		NumKeys:   1,
	})
	require.NoError(t, err)

	svc := &KeyRotationService{Store: env.store, KeyManager: km}

	res, err := svc.RotateKey(ctx, RotateKeyRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, res.ActiveKeys)
	require.Empty(t, res.RetiredKeys)

	keys, err := svc.ListSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	for _, k := range keys {
		require.Nil(t, k.PrivateKeyEncrypted)
	}

	first := keys[0].Kid
	require.NoError(t, svc.RetireKey(ctx, first))
	require.ErrorIs(t, svc.RetireKey(ctx, first), ErrKeyAlreadyRetired)
	require.Equal(t, 1, km.NumSigners())

	active, err := env.store.SigningKeys().ListActiveSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, res.NewKey.Kid, active[0].Kid)

	t.Run("rotate retiring the rest", func(t *testing.T) {
		res, err := svc.RotateKey(ctx, RotateKeyRequest{RetireExisting: true})
		require.NoError(t, err)
		require.Equal(t, 1, res.ActiveKeys)
		require.Len(t, res.RetiredKeys, 1)

		active, err := env.store.SigningKeys().ListActiveSigningKeys(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		require.Equal(t, res.NewKey.Kid, active[0].Kid)
	})

	t.Run("restart reloads keys", func(t *testing.T) {
		reloaded, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:     store.NewKeyStoreAdapter(env.store),
			Algorithm: jwtx.AlgorithmEdDSA,
			Issuer:    testIssuer,
			NumKeys:   1,
		})
		require.NoError(t, err)
		require.Equal(t, 1, reloaded.NumSigners())
	})
}
