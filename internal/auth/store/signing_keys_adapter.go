package store

import (
	"context"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
)

// KeyStoreAdapter exposes a Store as a jwtx.KeyStore so pkg/jwtx never
// imports the domain package.
type KeyStoreAdapter struct {
	store Store
}

func NewKeyStoreAdapter(s Store) *KeyStoreAdapter {
	return &KeyStoreAdapter{store: s}
}

func (a *KeyStoreAdapter) ListAllSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	keys, err := a.store.SigningKeys().ListAllSigningKeys(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(keys), nil
}

func (a *KeyStoreAdapter) ListActiveSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	keys, err := a.store.SigningKeys().ListActiveSigningKeys(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(keys), nil
}

func (a *KeyStoreAdapter) CreateSigningKey(ctx context.Context, rec jwtx.SigningKeyRecord) error {
	return a.store.SigningKeys().CreateSigningKey(ctx, domain.SigningKey(rec))
}

func toRecords(keys []domain.SigningKey) []jwtx.SigningKeyRecord {
	out := make([]jwtx.SigningKeyRecord, len(keys))
	for i, k := range keys {
		out[i] = jwtx.SigningKeyRecord(k)
	}
	return out
}
