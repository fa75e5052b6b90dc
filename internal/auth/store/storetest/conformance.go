// Package storetest is a behavioural suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Factory returns a migrated, empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Users", testUsers},
		{"RefreshTokenKeySwap", testSwap},
		{"BulkStatus", testBulkStatus},
		{"OwnSecurity", testOwnSecurity},
		{"VerifyEmails", testVerifyEmails},
		{"RestorePasswordEmails", testRestoreEmails},
		{"DeactivationReasons", testReasons},
		{"SigningKeys", testSigningKeys},
		{"Transactions", testTx},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

// NewUser returns a valid, unsaved user with the given email.
func NewUser(email string) domain.User {
	return domain.User{
		UUID:            uuid.NewString(),
		Email:           email,
		Name:            "Test User",
		Role:            domain.RoleUser,
		Status:          domain.StatusActivated,
		RefreshTokenKey: "key-" + uuid.NewString(),
		Language:        domain.LangEN,
		RegisteredAt:    time.Now(),
	}
}

func mustCreate(t *testing.T, s store.Store, u domain.User) int64 {
	t.Helper()
	id, err := s.Users().CreateUser(context.Background(), u)
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("Alice@Example.com")
	id := mustCreate(t, s, u)

	got, err := s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, u.UUID, got.UUID)
	require.Equal(t, domain.RoleUser, got.Role)
	require.Equal(t, domain.StatusActivated, got.Status)
	require.Equal(t, u.RefreshTokenKey, got.RefreshTokenKey)
	require.WithinDuration(t, u.RegisteredAt, got.RegisteredAt, time.Millisecond)
	require.Nil(t, got.LastActivityAt)

	byEmail, err := s.Users().GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)

	_, err = s.Users().CreateUser(ctx, NewUser("alice@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Users().GetUserByID(ctx, id+1000)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Users().UpdateStatus(ctx, id, domain.StatusBlocked))
	require.NoError(t, s.Users().UpdateRole(ctx, id, domain.RoleModerator))
	now := time.Now()
	require.NoError(t, s.Users().UpdateLastActivity(ctx, id, now))

	got, err = s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StatusBlocked, got.Status)
	require.Equal(t, domain.RoleModerator, got.Role)
	require.NotNil(t, got.LastActivityAt)
	require.WithinDuration(t, now, *got.LastActivityAt, time.Millisecond)

	require.ErrorIs(t, s.Users().UpdateStatus(ctx, id+1000, domain.StatusBlocked), store.ErrNotFound)
	require.ErrorIs(t, s.Users().UpdateRole(ctx, id+1000, domain.RoleAdmin), store.ErrNotFound)
}

func testSwap(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("swap@example.com")
	id := mustCreate(t, s, u)

	ok, err := s.Users().SwapRefreshTokenKey(ctx, id, u.RefreshTokenKey, "second")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Users().SwapRefreshTokenKey(ctx, id, u.RefreshTokenKey, "third")
	require.NoError(t, err)
	require.False(t, ok, "stale key must not win")

	got, err := s.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "second", got.RefreshTokenKey)
}

func testBulkStatus(t *testing.T, s store.Store) {
	ctx := context.Background()
	var ids []int64
	for i := range 3 {
		ids = append(ids, mustCreate(t, s, NewUser(fmt.Sprintf("bulk%d@example.com", i))))
	}

	n, err := s.Users().CountByStatus(ctx, domain.StatusActivated)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	updated, err := s.Users().SetStatusForIDs(ctx, []int64{ids[0], ids[2], ids[2] + 1000}, domain.StatusDeactivated)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{ids[0], ids[2]}, updated)

	n, err = s.Users().CountByStatus(ctx, domain.StatusActivated)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	updated, err = s.Users().SetStatusForIDs(ctx, nil, domain.StatusDeactivated)
	require.NoError(t, err)
	require.Empty(t, updated)
}

func testOwnSecurity(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := mustCreate(t, s, NewUser("pw@example.com"))

	_, err := s.OwnSecurity().GetOwnSecurity(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: "h1", UpdatedAt: time.Now()}))
	err = s.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: "h2", UpdatedAt: time.Now()})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.OwnSecurity().UpsertOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: "h3", UpdatedAt: time.Now()}))
	got, err := s.OwnSecurity().GetOwnSecurity(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "h3", got.PasswordHash)

	other := mustCreate(t, s, NewUser("pw2@example.com"))
	require.NoError(t, s.OwnSecurity().UpsertOwnSecurity(ctx, domain.OwnSecurity{UserID: other, PasswordHash: "x", UpdatedAt: time.Now()}))
	got, err = s.OwnSecurity().GetOwnSecurity(ctx, other)
	require.NoError(t, err)
	require.Equal(t, "x", got.PasswordHash)
}

func testVerifyEmails(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now()
	live := mustCreate(t, s, NewUser("live@example.com"))
	stale := mustCreate(t, s, NewUser("stale@example.com"))

	require.NoError(t, s.VerifyEmails().CreateVerifyEmail(ctx, domain.VerifyEmail{UserID: live, TokenHash: "a", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.VerifyEmails().CreateVerifyEmail(ctx, domain.VerifyEmail{UserID: stale, TokenHash: "b", ExpiresAt: now.Add(-time.Hour)}))

	got, err := s.VerifyEmails().GetVerifyEmail(ctx, live)
	require.NoError(t, err)
	require.Equal(t, "a", got.TokenHash)
	require.False(t, got.IsExpired(now))

	n, err := s.VerifyEmails().DeleteExpiredVerifyEmails(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = s.VerifyEmails().GetVerifyEmail(ctx, stale)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.VerifyEmails().DeleteVerifyEmail(ctx, live))
	require.ErrorIs(t, s.VerifyEmails().DeleteVerifyEmail(ctx, live), store.ErrNotFound)
}

func testRestoreEmails(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now()
	id := mustCreate(t, s, NewUser("restore@example.com"))
	repo := s.RestorePasswordEmails()

	require.NoError(t, repo.ReplaceRestorePasswordEmail(ctx, domain.RestorePasswordEmail{UserID: id, TokenHash: "first", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.ReplaceRestorePasswordEmail(ctx, domain.RestorePasswordEmail{UserID: id, TokenHash: "second", ExpiresAt: now.Add(time.Hour)}))

	_, err := repo.GetRestorePasswordEmailByHash(ctx, "first")
	require.ErrorIs(t, err, store.ErrNotFound)
	got, err := repo.GetRestorePasswordEmailByHash(ctx, "second")
	require.NoError(t, err)
	require.Equal(t, id, got.UserID)

	n, err := repo.DeleteExpiredRestorePasswordEmails(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.ErrorIs(t, repo.DeleteRestorePasswordEmail(ctx, id), store.ErrNotFound)
}

func testReasons(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := mustCreate(t, s, NewUser("gone@example.com"))

	_, err := s.DeactivationReasons().GetLatestDeactivationReason(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	base := time.Now()
	require.NoError(t, s.DeactivationReasons().CreateDeactivationReason(ctx, domain.DeactivationReason{UserID: id, Reasons: "{en}old{en}", DeactivatedAt: base.Add(-time.Hour)}))
	require.NoError(t, s.DeactivationReasons().CreateDeactivationReason(ctx, domain.DeactivationReason{UserID: id, Reasons: "{en}new{en}", DeactivatedAt: base}))

	got, err := s.DeactivationReasons().GetLatestDeactivationReason(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "{en}new{en}", got.Reasons)
}

func testSigningKeys(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now()
	mk := func(kid string, expires time.Time) domain.SigningKey {
		return domain.SigningKey{ID: "id-" + kid, Kid: kid, Algorithm: "EdDSA", PrivateKeyEncrypted: []byte("sealed-" + kid), CreatedAt: now, ExpiresAt: expires}
	}
	repo := s.SigningKeys()
	require.NoError(t, repo.CreateSigningKey(ctx, mk("a", now.Add(time.Hour))))
	require.NoError(t, repo.CreateSigningKey(ctx, mk("b", now.Add(time.Hour))))
	require.NoError(t, repo.CreateSigningKey(ctx, mk("old", now.Add(-time.Hour))))
	require.ErrorIs(t, repo.CreateSigningKey(ctx, mk("a", now.Add(time.Hour))), store.ErrAlreadyExists)

	got, err := repo.GetSigningKeyByKid(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("sealed-a"), got.PrivateKeyEncrypted)
	require.True(t, got.IsActive(now))

	require.NoError(t, repo.RetireSigningKey(ctx, "b"))
	require.ErrorIs(t, repo.RetireSigningKey(ctx, "missing"), store.ErrNotFound)

	active, err := repo.ListActiveSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "a", active[0].Kid)

	all, err := repo.ListAllSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, repo.DeleteExpiredSigningKeys(ctx))
	_, err = repo.GetSigningKeyByKid(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testTx(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, NewUser("rolled@example.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = s.Users().GetUserByEmail(ctx, "rolled@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		id, err := tx.Users().CreateUser(ctx, NewUser("kept@example.com"))
		if err != nil {
			return err
		}
		require.Error(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), "transactions do not nest")
		return tx.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: "h", UpdatedAt: time.Now()})
	})
	require.NoError(t, err)
	u, err := s.Users().GetUserByEmail(ctx, "kept@example.com")
	require.NoError(t, err)
	_, err = s.OwnSecurity().GetOwnSecurity(ctx, u.ID)
	require.NoError(t, err)
}
