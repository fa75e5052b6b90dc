package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
)

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

// AuthnMiddleware attaches a Principal when the request carries a valid
// access token. It never rejects: requests without a usable token go
// through anonymously and the Policy decides whether that is enough.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err == nil {
				err = claims.ValidateType(jwtx.TypeAccess)
			}
			if err != nil {
				slogx.FromContext(r.Context()).Debug("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{Email: claims.Email(), Role: claims.Role}, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
