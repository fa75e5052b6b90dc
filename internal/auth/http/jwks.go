package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
)

// jwksMaxAge is how long verifiers may cache the key set. Rotation keeps
// the outgoing key published for longer than this.
const jwksMaxAge = "public, max-age=300"

// JWKSHandler godoc
//
//	@Summary		Get JWKS
//	@Description	Public keys that verify access tokens, retired keys included until they expire.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body, err := json.Marshal(authsdk.JWKSResponse(keys.PublicJWKS()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", jwksMaxAge)
		_, _ = w.Write(body)
	}
}
