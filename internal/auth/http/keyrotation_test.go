package http

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestKeyRotationEndpoints(t *testing.T) {
	s := newTestServer(t)
	adm := s.seedUser(t, "admin@example.com", domain.RoleAdmin, domain.StatusActivated)
	tok := s.accessToken(t, adm)

	rr := s.do(t, http.MethodGet, "/management/keys", tok, nil)
	requireStatus(t, rr, http.StatusOK)
	require.Len(t, decode[[]authsdk.SigningKeyInfo](t, rr), 2)

	t.Run("rotate without body", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/management/keys/rotate", tok, nil)
		requireStatus(t, rr, http.StatusOK)
		resp := decode[authsdk.RotateKeyResponse](t, rr)
		require.NotEmpty(t, resp.NewKey.Kid)
		require.Empty(t, resp.RetiredKeys)
		require.Equal(t, 3, resp.ActiveKeys)
	})

	var survivor string
	t.Run("rotate and retire the rest", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/management/keys/rotate", tok, authsdk.RotateKeyRequest{RetireExisting: true})
		requireStatus(t, rr, http.StatusOK)
		resp := decode[authsdk.RotateKeyResponse](t, rr)
		require.Len(t, resp.RetiredKeys, 3)
		require.Equal(t, 1, resp.ActiveKeys)
		survivor = resp.NewKey.Kid
	})

	t.Run("tokens signed before rotation still verify", func(t *testing.T) {
		requireStatus(t, s.do(t, http.MethodGet, "/user", tok, nil), http.StatusOK)
	})

	t.Run("unknown kid", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/management/keys/no-such-kid/retire", tok, nil)
		requireStatus(t, rr, http.StatusNotFound)
		require.Equal(t, "NotFound", decode[authsdk.ErrorResponse](t, rr).Name)
	})

	t.Run("last key stays", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/management/keys/"+survivor+"/retire", tok, nil)
		requireStatus(t, rr, http.StatusConflict)
		require.Equal(t, "KeyConflict", decode[authsdk.ErrorResponse](t, rr).Name)
	})
}
