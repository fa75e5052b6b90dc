package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/greencity/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Decide(t *testing.T) {
	p := httpx.NewPolicy(httpx.AnyRole("ADMIN"),
		httpx.Rule{Method: http.MethodOptions, Patterns: []string{"/**"}, Access: httpx.Public()},
		httpx.Rule{Patterns: []string{"/static/css/**"}, Access: httpx.Public()},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/user/isOnline/{userId}/"}, Access: httpx.Authenticated()},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/user", "/user/findUserByName/**", "/user/*/profile"}, Access: httpx.AnyRole("USER")},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/user/isOnline/{userId}/"}, Access: httpx.AnyRole("MODERATOR")},
	)

	tests := []struct {
		method, path string
		public       bool
		user         bool
		admin        bool
	}{
		{http.MethodOptions, "/anything/at/all", true, true, true},
		{http.MethodOptions, "/", true, true, true},
		{http.MethodGet, "/static/css/a/b.css", true, true, true},
		{http.MethodGet, "/static/css", true, true, true},
		{http.MethodGet, "/user/isOnline/7", false, true, true},
		{http.MethodGet, "/user/isOnline/7/", false, true, true},
		{http.MethodGet, "/user", false, true, false},
		{http.MethodGet, "/user/", false, true, false},
		{http.MethodGet, "/user/findUserByName/a/b", false, true, false},
		{http.MethodGet, "/user/42/profile", false, true, false},
		{http.MethodGet, "/user/42/profile/extra", false, false, true},
		{http.MethodPost, "/user", false, false, true},
		{http.MethodGet, "/unknown", false, false, true},
	}

	user := &httpx.Principal{Email: "u@x.io", Role: "USER"}
	admin := &httpx.Principal{Email: "a@x.io", Role: "ADMIN"}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			a := p.Decide(tt.method, tt.path)
			require.Equal(t, tt.public, a.Allows(nil), "anonymous")
			require.Equal(t, tt.user, a.Allows(user), "user")
			require.Equal(t, tt.admin, a.Allows(admin), "admin")
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := httpx.NewPolicy(httpx.AnyRole("ADMIN"),
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/x/{id}"}, Access: httpx.Authenticated()},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/x/**"}, Access: httpx.Public()},
	)
	require.False(t, p.Decide(http.MethodGet, "/x/1").IsPublic())
	require.True(t, p.Decide(http.MethodGet, "/x/1/2").IsPublic())
}

func TestPolicy_Middleware(t *testing.T) {
	p := httpx.NewPolicy(httpx.AnyRole("ADMIN"),
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/open"}, Access: httpx.Public()},
		httpx.Rule{Method: http.MethodGet, Patterns: []string{"/mine"}, Access: httpx.AnyRole("USER", "ADMIN")},
	)
	h := p.Middleware()(okHandler)

	serve := func(path string, who *httpx.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if who != nil {
			req = req.WithContext(httpx.WithPrincipal(context.Background(), *who, "tok"))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, serve("/open", nil).Code)

	rec := serve("/mine", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, httpx.MsgUnauthorized, body.Message)
	require.Equal(t, "/mine", body.Path)

	require.Equal(t, http.StatusOK, serve("/mine", &httpx.Principal{Role: "USER"}).Code)

	rec = serve("/admin-only", &httpx.Principal{Role: "USER"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, httpx.MsgForbidden, body.Message)
}
