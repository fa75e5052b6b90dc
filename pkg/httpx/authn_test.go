package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/greencity/pkg/httpx"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAuthnMiddleware(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Algorithm: jwtx.AlgorithmEdDSA, Issuer: "gc", NumKeys: 1})
	require.NoError(t, err)

	now := time.Now()
	access, err := km.GetSigner().Sign(jwtx.NewAccessClaims("a@b.com", "ADMIN", "gc", time.Minute, now))
	require.NoError(t, err)
	refresh, err := km.GetSigner().Sign(jwtx.NewRefreshClaims("a@b.com", "k", "gc", time.Minute, now))
	require.NoError(t, err)

	var got *httpx.Principal
	h := httpx.AuthnMiddleware(km.Verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = nil
		if p, ok := httpx.PrincipalFromContext(r.Context()); ok {
			got = &p
			require.Equal(t, access, httpx.BearerTokenFromContext(r.Context()))
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   *httpx.Principal
	}{
		{"no header", "", nil},
		{"access token", "Bearer " + access, &httpx.Principal{Email: "a@b.com", Role: "ADMIN"}},
		{"lowercase scheme", "bearer " + access, &httpx.Principal{Email: "a@b.com", Role: "ADMIN"}},
		{"refresh token is not a credential", "Bearer " + refresh, nil},
		{"garbage", "Bearer nope", nil},
		{"basic auth", "Basic Zm9vOmJhcg==", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "authn never rejects")
			require.Equal(t, tt.want, got)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	httpx.Chain(okHandler, mw("a"), mw("b"), mw("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestCORSMiddleware(t *testing.T) {
	h := httpx.CORSMiddleware(httpx.DefaultCORS([]string{"http://localhost:4200"}))(okHandler)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ownSecurity/signIn", nil)
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		req.Header.Set("Access-Control-Request-Headers", "content-type,authorization")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		require.Equal(t, http.MethodPatch, rec.Header().Get("Access-Control-Allow-Methods"))
		allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
		require.Contains(t, allowed, "authorization")
		require.Contains(t, allowed, "content-type")
		require.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("preflight with unlisted header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "x-something-else")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:4200")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
