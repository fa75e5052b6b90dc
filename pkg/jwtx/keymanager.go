package jwtx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/greencity/pkg/cryptox"
)

const (
	defaultNumKeys = 3
	maxNumKeys     = 10
	defaultRSABits = 4096
	kidPrefix      = "greencity-"
)

var (
	ErrSignerNotFound = errors.New("jwtx: signer not found")
	ErrLastSigner     = errors.New("jwtx: cannot retire the last signing key")
)

// KeyManager owns the active signing keys and the KeySet used to verify
// tokens. Signing spreads across all active keys; retired keys stay in the
// KeySet until they are removed.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	algorithm string
	rsaBits   int

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures an ephemeral KeyManager.
type KeyManagerOptions struct {
	// Algorithm is one of RS256, ES256, EdDSA.
	Algorithm string
	// Issuer is written to and required on every token.
	Issuer string
	// RSABits is the RS256 modulus size, 4096 when zero.
	RSABits int
	// NumKeys is the number of signing keys, 3 when zero, at most 10.
	NumKeys int
}

func clampNumKeys(n int) int {
	switch {
	case n <= 0:
		return defaultNumKeys
	case n > maxNumKeys:
		return maxNumKeys
	default:
		return n
	}
}

func newKeyManager(alg, issuer string, rsaBits int) (*KeyManager, error) {
	if issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}
	switch alg {
	case AlgorithmRS256, AlgorithmES256, AlgorithmEdDSA:
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: RS256, ES256, EdDSA)", alg)
	}
	if rsaBits == 0 {
		rsaBits = defaultRSABits
	}
	ks := NewKeySet()
	return &KeyManager{
		Verifier:  NewVerifier(ks, alg, issuer),
		KeySet:    ks,
		algorithm: alg,
		rsaBits:   rsaBits,
	}, nil
}

// NewEphemeralKeyManager generates keys in memory only. Every token becomes
// invalid when the process restarts.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	km, err := newKeyManager(opts.Algorithm, opts.Issuer, opts.RSABits)
	if err != nil {
		return nil, err
	}
	for i := range clampNumKeys(opts.NumKeys) {
		_, signer, err := km.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// GenerateKey creates a fresh private key for the manager's algorithm with a
// random kid. It does not add the signer.
func (km *KeyManager) GenerateKey() ([]byte, Signer, error) {
	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, nil, err
	}
	kid = kidPrefix + kid

	var pemData []byte
	switch km.algorithm {
	case AlgorithmRS256:
		pemData, err = cryptox.GenerateRSAKey(km.rsaBits)
	case AlgorithmES256:
		pemData, err = cryptox.GenerateES256Key()
	case AlgorithmEdDSA:
		pemData, err = cryptox.GenerateEd25519Key()
	}
	if err != nil {
		return nil, nil, err
	}

	signer, err := NewSigner(km.algorithm, kid, pemData)
	if err != nil {
		return nil, nil, err
	}
	return pemData, signer, nil
}

func (km *KeyManager) Algorithm() string { return km.algorithm }

func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() && km.NumSigners() > 0 }

// GetSigner returns a random active signer, or nil when there is none.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()
	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// GetSigners returns a copy of the active signers.
func (km *KeyManager) GetSigners() []Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return append([]Signer(nil), km.signers...)
}

// AddSigner makes s available for both signing and verification.
func (km *KeyManager) AddSigner(s Signer) error {
	if s == nil {
		return errors.New("jwtx: signer cannot be nil")
	}
	km.mu.Lock()
	defer km.mu.Unlock()
	if err := km.KeySet.AddSigner(s); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, s)
	return nil
}

// RetireSignerByKid stops signing with kid. Its public key stays in the
// KeySet so tokens already issued keep verifying.
func (km *KeyManager) RetireSignerByKid(kid string) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	idx := -1
	for i, s := range km.signers {
		if s.KID() == kid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrSignerNotFound, kid)
	}
	if len(km.signers) == 1 {
		return ErrLastSigner
	}
	km.signers = append(km.signers[:idx:idx], km.signers[idx+1:]...)
	return nil
}
