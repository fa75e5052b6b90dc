package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "olena@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSignInAndErrors(t *testing.T) {
	t.Parallel()

	access := testToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ownSecurity/signIn", func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Password {
		case "good":
			writeJSON(w, http.StatusOK, SuccessSignIn{UserID: 7, AccessToken: access, RefreshToken: "r1", Name: "Olena"})
		case "":
			writeJSON(w, http.StatusBadRequest, []FieldError{{Name: "password", Message: "cannot be blank"}})
		default:
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Name: ErrorNameWrongPassword, Message: "Bad password"})
		}
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, UserInfo{ID: 7, Email: "olena@example.com", Role: "USER"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, err := client.AuthenticateWithPassword(ctx, "olena@example.com", "good")
		require.NoError(t, err)
		require.Equal(t, "r1", s.RefreshToken())
		require.WithinDuration(t, time.Now().Add(time.Hour-refreshBuffer), s.ExpiresAt(), 5*time.Second)

		me, err := s.GetCurrentUser(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 7, me.ID)
	})

	t.Run("domain error", func(t *testing.T) {
		_, err := client.SignIn(ctx, SignInRequest{Email: "olena@example.com", Password: "bad"})
		require.Error(t, err)
		require.True(t, IsName(err, ErrorNameWrongPassword))
		require.Equal(t, http.StatusBadRequest, StatusCode(err))
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := client.SignIn(ctx, SignInRequest{Email: "olena@example.com"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Len(t, apiErr.Fields, 1)
		require.Equal(t, "password", apiErr.Fields[0].Name)
		require.Contains(t, apiErr.Error(), "password: cannot be blank")
	})
}

func TestSessionRefreshesOnce(t *testing.T) {
	t.Parallel()

	fresh := testToken(t, time.Now().Add(time.Hour))
	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ownSecurity/updateAccessToken", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("refreshToken") != "r1" {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Name: ErrorNameBadRefreshToken, Message: "Refresh token not valid!"})
			return
		}
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, TokenPair{AccessToken: fresh, RefreshToken: "r2"})
	})
	mux.HandleFunc("GET /ownSecurity/password-status", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+fresh, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, PasswordStatus{HasPassword: true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewSDKClient(srv.URL)
	s := client.NewSessionFromTokens(testToken(t, time.Now().Add(-time.Minute)), "r1")

	var wg sync.WaitGroup
	results := make([]bool, 5)
	errs := make([]error, 5)
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.HasPassword(context.Background())
		}()
	}
	wg.Wait()

	for i := range 5 {
		require.NoError(t, errs[i])
		require.True(t, results[i])
	}
	require.EqualValues(t, 1, refreshes.Load())
	require.Equal(t, "r2", s.RefreshToken())
	require.Equal(t, fresh, s.AccessToken())

	// r2 is unknown to the stub, so a forced refresh fails.
	err := s.Refresh(context.Background())
	require.True(t, IsName(err, ErrorNameBadRefreshToken))
	require.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestWithQuery(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/p", withQuery("/p", nil))
	require.Equal(t, "/p", withQuery("/p", map[string][]string{"lang": {""}}))
	require.Equal(t, "/p?email=a%40b.c&lang=ua", withQuery("/p", map[string][]string{
		"email": {"a@b.c"},
		"lang":  {"ua"},
	}))
	require.Equal(t, "/user/deactivate?id=42", idPath("/user/deactivate", 42))
}

func TestGateErrorParsing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, GateErrorResponse{
			Status:  http.StatusForbidden,
			Error:   "Forbidden",
			Message: "You don't have authorities.",
			Path:    r.URL.Path,
		})
	}))
	defer srv.Close()

	s := NewSDKClient(srv.URL).NewSessionFromTokens(testToken(t, time.Now().Add(time.Hour)), "r")
	_, err := s.ListRoles(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Empty(t, apiErr.Name)
	require.Equal(t, "You don't have authorities.", apiErr.Message)
}
