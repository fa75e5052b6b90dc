package httpx

import "context"

type ctxKey string

const (
	ctxKeyPrincipal ctxKey = "principal"
	ctxKeyToken     ctxKey = "token"
)

// Principal is the caller identified by a valid access token.
type Principal struct {
	Email string
	Role  string
}

// WithPrincipal attaches p and the raw bearer token to ctx.
func WithPrincipal(ctx context.Context, p Principal, token string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyPrincipal, p)
	return context.WithValue(ctx, ctxKeyToken, token)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

// BearerTokenFromContext returns the raw access token the caller presented.
func BearerTokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeyToken).(string)
	return s
}
