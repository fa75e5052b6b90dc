package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	u := env.seedUser(t, "h@example.com", goodPassword, domain.RoleUser, domain.StatusCreated)
	now := time.Now()

	require.NoError(t, env.store.VerifyEmails().CreateVerifyEmail(ctx, domain.VerifyEmail{
		UserID: u.ID, TokenHash: "v", ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, env.store.RestorePasswordEmails().ReplaceRestorePasswordEmail(ctx, domain.RestorePasswordEmail{
		UserID: u.ID, TokenHash: "r", ExpiresAt: now.Add(time.Hour),
	}))

	hk := NewHousekeepingService(env.store, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Cleanup(ctx)
	_, err := env.store.VerifyEmails().GetVerifyEmail(ctx, u.ID)
	require.NoError(t, err, "live rows survive")

	hk.Now = func() time.Time { return now.Add(2 * time.Hour) }
	hk.Cleanup(ctx)

	_, err = env.store.VerifyEmails().GetVerifyEmail(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.store.RestorePasswordEmails().GetRestorePasswordEmailByHash(ctx, "r")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingStartStop(t *testing.T) {
	env := newTestEnv(t)
	hk := NewHousekeepingService(env.store, slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond)

	hk.Start()
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		hk.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
