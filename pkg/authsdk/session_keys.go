package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Signing key management. Every call needs the ADMIN role.

// RotateKey adds a signing key. With RetireExisting set, the keys that were
// active before the call stop signing.
func (s *Session) RotateKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResponse, error) {
	return authCall[RotateKeyResponse](ctx, s, http.MethodPost, "/management/keys/rotate", req)
}

// ListKeys returns the signing keys. Persistent deployments include retired
// keys, ephemeral ones only the active signers.
func (s *Session) ListKeys(ctx context.Context) ([]SigningKeyInfo, error) {
	keys, err := authCall[[]SigningKeyInfo](ctx, s, http.MethodGet, "/management/keys", nil)
	if err != nil {
		return nil, err
	}
	return *keys, nil
}

// RetireKey stops kid from signing. Tokens it signed keep verifying until
// the key expires. Retiring the last active key is refused with 409.
func (s *Session) RetireKey(ctx context.Context, kid string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/management/keys/"+url.PathEscape(kid)+"/retire", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}
