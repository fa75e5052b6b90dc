package authsdk

import (
	"context"
	"net/http"
)

// Anonymous endpoints polled by load balancers and token verifiers.

// GetLiveness reports whether the process is serving requests.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/livez", "", nil)
}

// GetReadiness reports whether the database and signer are usable. A
// degraded service answers 503, which surfaces as an *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/readyz", "", nil)
}

// GetJWKS fetches the public keys that verify access tokens, retired keys
// included until they expire.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	return call[JWKSResponse](ctx, c, http.MethodGet, "/.well-known/jwks.json", "", nil)
}
