package jwtx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/idx"
)

// DefaultGracePeriod is how long a retired key keeps verifying tokens.
const DefaultGracePeriod = 30 * 24 * time.Hour

// SigningKeyRecord is the stored form of a signing key. The private key is
// sealed with cryptox.EncryptPrivateKey.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           time.Time
}

// KeyStore is the persistence a persistent KeyManager needs.
type KeyStore interface {
	// ListAllSigningKeys returns unexpired keys, retired or not.
	ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)
	// ListActiveSigningKeys returns keys that are neither retired nor expired.
	ListActiveSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

type PersistentKeyManagerOptions struct {
	Store KeyStore
	// Algorithm is used for newly generated keys. Loaded keys keep theirs,
	// but only keys matching Algorithm verify.
	Algorithm   string
	Issuer      string
	RSABits     int
	NumKeys     int
	GracePeriod time.Duration
}

// NewPersistentKeyManager loads every stored key into the KeySet, signs with
// the active ones, and generates and stores new keys until NumKeys are active.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, errors.New("jwtx: Store is required for persistent key manager")
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	km, err := newKeyManager(opts.Algorithm, opts.Issuer, opts.RSABits)
	if err != nil {
		return nil, err
	}

	all, err := opts.Store.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load keys: %w", err)
	}
	active := make(map[string]bool)
	activeRecs, err := opts.Store.ListActiveSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load active keys: %w", err)
	}
	for _, rec := range activeRecs {
		active[rec.Kid] = true
	}

	for _, rec := range all {
		signer, err := openRecord(rec)
		if err != nil {
			return nil, err
		}
		if active[rec.Kid] && rec.Algorithm == km.algorithm {
			err = km.AddSigner(signer)
		} else {
			err = km.KeySet.AddSigner(signer)
		}
		if err != nil {
			return nil, fmt.Errorf("jwtx: add key %s: %w", rec.Kid, err)
		}
	}

	for km.NumSigners() < clampNumKeys(opts.NumKeys) {
		rec, signer, err := km.NewRecord(time.Now().UTC(), opts.GracePeriod)
		if err != nil {
			return nil, err
		}
		if err := opts.Store.CreateSigningKey(ctx, rec); err != nil {
			return nil, fmt.Errorf("jwtx: store new key: %w", err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// NewRecord generates a key and seals it into a record ready to store. The
// key stops verifying grace after creation, retired or not.
func (km *KeyManager) NewRecord(now time.Time, grace time.Duration) (SigningKeyRecord, Signer, error) {
	pemData, signer, err := km.GenerateKey()
	if err != nil {
		return SigningKeyRecord{}, nil, fmt.Errorf("jwtx: generate key: %w", err)
	}
	sealed, err := cryptox.EncryptPrivateKey(pemData)
	if err != nil {
		return SigningKeyRecord{}, nil, fmt.Errorf("jwtx: encrypt key: %w", err)
	}
	return SigningKeyRecord{
		ID:                  idx.New().String(),
		Kid:                 signer.KID(),
		Algorithm:           km.algorithm,
		PrivateKeyEncrypted: sealed,
		CreatedAt:           now,
		ExpiresAt:           now.Add(grace),
	}, signer, nil
}

func openRecord(rec SigningKeyRecord) (Signer, error) {
	pemData, err := cryptox.DecryptPrivateKey(rec.PrivateKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("jwtx: decrypt key %s: %w", rec.Kid, err)
	}
	signer, err := NewSigner(rec.Algorithm, rec.Kid, pemData)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load key %s: %w", rec.Kid, err)
	}
	return signer, nil
}
