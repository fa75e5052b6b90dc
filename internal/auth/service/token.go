package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
)

var (
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")
	ErrNoSigningKey   = errors.New("no active signing key")
)

// TokenService issues and checks access and refresh JWTs. A refresh token
// carries the user's refresh key at issuance and is only honoured while
// that key is still current.
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) sign(c jwtx.Claims) (string, error) {
	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", ErrNoSigningKey
	}
	return signer.Sign(c)
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

func (s *TokenService) CreateAccessToken(email string, role domain.Role) (string, error) {
	return s.sign(jwtx.NewAccessClaims(email, string(role), s.Issuer, s.accessTTL(), s.now()))
}

func (s *TokenService) CreateRefreshToken(u domain.User) (string, error) {
	return s.sign(jwtx.NewRefreshClaims(u.Email, u.RefreshTokenKey, s.Issuer, s.refreshTTL(), s.now()))
}

// CreateTokenPair issues both tokens for u's current role and refresh key.
func (s *TokenService) CreateTokenPair(u domain.User) (domain.TokenPair, error) {
	access, err := s.CreateAccessToken(u.Email, u.Role)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.CreateRefreshToken(u)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// GenerateTokenKey returns a fresh 256-bit url-safe secret. It backs
// refresh keys and the tokens mailed for verification and restore.
func GenerateTokenKey() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

// ParseAccessToken verifies token and rejects anything but an access token.
func (s *TokenService) ParseAccessToken(token string) (jwtx.Claims, error) {
	return s.parse(token, jwtx.TypeAccess)
}

// ParseRefreshToken verifies signature, expiry and type. It does not check
// the key; see IsTokenValid.
func (s *TokenService) ParseRefreshToken(token string) (jwtx.Claims, error) {
	return s.parse(token, jwtx.TypeRefresh)
}

func (s *TokenService) parse(token, typ string) (jwtx.Claims, error) {
	claims, err := s.KeyManager.Verifier.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, ErrExpiredToken
		}
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if err := claims.ValidateType(typ); err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return claims, nil
}

// GetEmailOutOfAccessToken returns the subject of a valid access token.
func (s *TokenService) GetEmailOutOfAccessToken(token string) (string, error) {
	claims, err := s.ParseAccessToken(token)
	if err != nil {
		return "", err
	}
	return claims.Email(), nil
}

// IsTokenValid reports whether token is a live refresh token bound to
// expectedKey.
func (s *TokenService) IsTokenValid(token, expectedKey string) bool {
	claims, err := s.ParseRefreshToken(token)
	if err != nil {
		return false
	}
	return expectedKey != "" && cryptox.EqualTokens(claims.Key, expectedKey)
}
