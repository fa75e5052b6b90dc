package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms.
const (
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// Signer signs claims with one private key.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
}

type keySigner struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
	jwk    JWK
}

// NewSigner parses a PEM private key for alg. EdDSA and ES256 keys must be
// PKCS8; RS256 accepts PKCS1 or PKCS8.
func NewSigner(alg, kid string, pemKey []byte) (Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM")
	}

	var (
		parsed any
		err    error
	)
	if block.Type == "RSA PRIVATE KEY" {
		parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	} else {
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse private key: %w", err)
	}

	s := &keySigner{kid: kid}
	switch key := parsed.(type) {
	case ed25519.PrivateKey:
		if alg != AlgorithmEdDSA {
			return nil, fmt.Errorf("%w: Ed25519 key for %s", ErrAlgMismatch, alg)
		}
		s.method, s.key = jwt.SigningMethodEdDSA, key
		s.jwk = NewEd25519JWK(kid, "sig", alg, key.Public().(ed25519.PublicKey))
	case *ecdsa.PrivateKey:
		if alg != AlgorithmES256 || key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("%w: ECDSA key for %s", ErrAlgMismatch, alg)
		}
		s.method, s.key = jwt.SigningMethodES256, key
		s.jwk = NewES256JWK(kid, "sig", alg, &key.PublicKey)
	case *rsa.PrivateKey:
		if alg != AlgorithmRS256 {
			return nil, fmt.Errorf("%w: RSA key for %s", ErrAlgMismatch, alg)
		}
		s.method, s.key = jwt.SigningMethodRS256, key
		s.jwk = NewRSAJWK(kid, "sig", alg, &key.PublicKey)
	default:
		return nil, fmt.Errorf("jwtx: unsupported private key type %T", parsed)
	}
	return s, nil
}

func (s *keySigner) Alg() string    { return s.method.Alg() }
func (s *keySigner) KID() string    { return s.kid }
func (s *keySigner) PublicJWK() JWK { return s.jwk }

func (s *keySigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
