package authsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Operations available to any signed-in user.

// GetCurrentUser returns the caller's profile.
func (s *Session) GetCurrentUser(ctx context.Context) (*UserInfo, error) {
	return authCall[UserInfo](ctx, s, http.MethodGet, "/user", nil)
}

// GetLanguage returns the caller's language code.
func (s *Session) GetLanguage(ctx context.Context) (string, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/user/lang", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if err := parseErrorResponse(resp, body); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// UpdateCurrentPassword replaces the caller's password without asking for
// the old one. Only ACTIVATED accounts may do this.
func (s *Session) UpdateCurrentPassword(ctx context.Context, password, confirm string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/ownSecurity/changePassword",
		UpdatePasswordRequest{Password: password, ConfirmPassword: confirm})
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// ChangePassword replaces the caller's password after checking current.
// Existing refresh tokens stay valid.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/user/changePassword", req)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// HasPassword reports whether the caller can sign in with a password.
func (s *Session) HasPassword(ctx context.Context) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/ownSecurity/password-status", nil)
	if err != nil {
		return false, err
	}

	var st PasswordStatus
	if err := decodeJSON(resp, &st, http.StatusOK); err != nil {
		return false, err
	}
	return st.HasPassword, nil
}

// SetPassword gives a password to an account that has none.
func (s *Session) SetPassword(ctx context.Context, password, confirm string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/ownSecurity/set-password",
		UpdatePasswordRequest{Password: password, ConfirmPassword: confirm})
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}
