package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewAccessClaims("a@b.com", "ROLE_USER", "greencity", 15*time.Minute, now)

	require.Equal(t, "a@b.com", c.Email())
	require.Equal(t, "ROLE_USER", c.Role)
	require.Equal(t, jwtx.TypeAccess, c.Type)
	require.Empty(t, c.Key)
	require.NotEmpty(t, c.ID)
	require.WithinDuration(t, now.Add(15*time.Minute), c.ExpiresAt.Time, time.Second)
}

func TestNewRefreshClaims(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewRefreshClaims("a@b.com", "key-1", "greencity", time.Hour, now)

	require.Equal(t, jwtx.TypeRefresh, c.Type)
	require.Equal(t, "key-1", c.Key)
	require.Empty(t, c.Role)
	require.NoError(t, c.ValidateType(jwtx.TypeRefresh))
	require.ErrorIs(t, c.ValidateType(jwtx.TypeAccess), jwtx.ErrWrongType)
}

func TestValidateIssuer(t *testing.T) {
	c := jwtx.NewAccessClaims("a@b.com", "", "auth", time.Minute, time.Now())
	require.NoError(t, c.ValidateIssuer("auth"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("other"), jwtx.ErrIssuer)
}

func TestValidateExpiryWithLeeway(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewAccessClaims("a@b.com", "", "auth", time.Minute, now)

	require.NoError(t, c.ValidateExpiryWithLeeway(now, 0))
	require.ErrorIs(t, c.ValidateExpiryWithLeeway(now.Add(2*time.Minute), 0), jwtx.ErrExpired)
	require.NoError(t, c.ValidateExpiryWithLeeway(now.Add(61*time.Second), 5*time.Second))
	require.ErrorIs(t, c.ValidateExpiryWithLeeway(now.Add(-time.Minute), 0), jwtx.ErrNotYetValid)
}
