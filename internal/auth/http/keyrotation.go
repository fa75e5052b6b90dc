package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
)

// KeyRotationHandler manages signing keys in both ephemeral and persistent
// modes. The policy limits every route to ADMIN.
type KeyRotationHandler struct {
	KeyRotationService *service.KeyRotationService
}

// HandleRotate handles POST /management/keys/rotate
//
//	@Summary		Rotate signing keys
//	@Description	Generate a new signing key and optionally retire existing keys
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RotateKeyRequest	false	"Rotation options"
//	@Success		200		{object}	authsdk.RotateKeyResponse
//	@Failure		400		{array}		authsdk.FieldError
//	@Failure		401		{object}	authsdk.GateErrorResponse
//	@Failure		403		{object}	authsdk.GateErrorResponse
//	@Failure		500		{object}	authsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/management/keys/rotate [post]
func (h *KeyRotationHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RotateKeyRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.KeyRotationService.RotateKey(r.Context(), service.RotateKeyRequest{
		RetireExisting: req.RetireExisting,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("signing key rotated",
		"kid", resp.NewKey.Kid, "retired", len(resp.RetiredKeys), "active", resp.ActiveKeys)

	httpx.WriteJSON(w, http.StatusOK, authsdk.RotateKeyResponse{
		NewKey:      domainToSDKKey(resp.NewKey),
		RetiredKeys: domainKeysToSDK(resp.RetiredKeys),
		ActiveKeys:  resp.ActiveKeys,
	})
}

// HandleListKeys handles GET /management/keys
//
//	@Summary		List signing keys
//	@Description	List signing keys with their status. Private material is never returned.
//	@Tags			Keys
//	@Produce		json
//	@Success		200	{array}		authsdk.SigningKeyInfo
//	@Failure		401	{object}	authsdk.GateErrorResponse
//	@Failure		403	{object}	authsdk.GateErrorResponse
//	@Security		BearerAuth
//	@Router			/management/keys [get]
func (h *KeyRotationHandler) HandleListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.KeyRotationService.ListSigningKeys(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, domainKeysToSDK(keys))
}

// HandleRetireKey handles POST /management/keys/{kid}/retire
//
//	@Summary		Retire a signing key
//	@Description	Stop signing with a key. Tokens it signed keep verifying until it expires.
//	@Tags			Keys
//	@Param			kid	path	string	true	"Key ID to retire"
//	@Success		204	"Key retired"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Key not found"
//	@Failure		409	{object}	authsdk.ErrorResponse	"Already retired or last active key"
//	@Security		BearerAuth
//	@Router			/management/keys/{kid}/retire [post]
func (h *KeyRotationHandler) HandleRetireKey(w http.ResponseWriter, r *http.Request) {
	kid := r.PathValue("kid")

	err := h.KeyRotationService.RetireKey(r.Context(), kid)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, jwtx.ErrSignerNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, authsdk.ErrorResponse{
			Name:    string(service.KindNotFound),
			Message: "Signing key not found",
		})
	case errors.Is(err, service.ErrKeyAlreadyRetired), errors.Is(err, jwtx.ErrLastSigner):
		httpx.WriteJSON(w, http.StatusConflict, authsdk.ErrorResponse{
			Name:    "KeyConflict",
			Message: err.Error(),
		})
	default:
		writeServiceError(w, r, err)
	}
}

func domainToSDKKey(key domain.SigningKey) authsdk.SigningKeyInfo {
	var retiredAt *string
	if key.RetiredAt != nil {
		str := key.RetiredAt.UTC().Format(time.RFC3339)
		retiredAt = &str
	}

	info := authsdk.SigningKeyInfo{
		ID:        key.ID,
		Kid:       key.Kid,
		Algorithm: key.Algorithm,
		CreatedAt: key.CreatedAt.UTC().Format(time.RFC3339),
		RetiredAt: retiredAt,
	}
	if !key.ExpiresAt.IsZero() {
		info.ExpiresAt = key.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return info
}

func domainKeysToSDK(keys []domain.SigningKey) []authsdk.SigningKeyInfo {
	sdkKeys := make([]authsdk.SigningKeyInfo, len(keys))
	for i, key := range keys {
		sdkKeys[i] = domainToSDKKey(key)
	}
	return sdkKeys
}
