package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token types carried in the "typ" claim. A refresh token must never be
// accepted where an access token is expected and the other way round.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the payload of both token kinds. The subject is always the
// user's email.
type Claims struct {
	jwt.RegisteredClaims

	// Role is set on access tokens only.
	Role string `json:"role,omitempty"`

	// Key is the user's refresh token key at issuance, refresh tokens only.
	Key string `json:"key,omitempty"`

	Type string `json:"typ"`
}

// Email returns the subject.
func (c *Claims) Email() string { return c.Subject }

func registered(email, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewAccessClaims builds access token claims for email with role.
func NewAccessClaims(email, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(email, issuer, ttl, now),
		Role:             role,
		Type:             TypeAccess,
	}
}

// NewRefreshClaims builds refresh token claims bound to key.
func NewRefreshClaims(email, key, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(email, issuer, ttl, now),
		Key:              key,
		Type:             TypeRefresh,
	}
}

// NewJTI returns a random URL safe "jti" value.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks iss against expected. An empty expected matches anything.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateType checks the "typ" claim.
func (c *Claims) ValidateType(expected string) error {
	if c.Type != expected {
		return ErrWrongType
	}
	return nil
}

// ValidateExpiryWithLeeway checks exp and nbf allowing leeway for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
