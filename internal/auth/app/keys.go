package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
)

// InitAuthKeys builds the KeyManager that signs access and refresh tokens.
//
// With AUTH_KEY_STORAGE_MODE=persistent the private keys are sealed with the
// master key and kept in the signing_keys table, so a restart or a second
// replica keeps verifying earlier tokens. Any other mode generates keys in
// memory and every token dies with the process.
func InitAuthKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
	}

	attrs := []any{"mode", cfg.KeyStorageMode, "algorithm", cfg.Algorithm, "num_keys", cfg.NumKeys}

	if cfg.KeyStorageMode == "persistent" {
		km, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			Store:       store.NewKeyStoreAdapter(db),
			Algorithm:   cfg.Algorithm,
			Issuer:      cfg.Issuer,
			RSABits:     cfg.RSABits,
			NumKeys:     cfg.NumKeys,
			GracePeriod: cfg.KeyGracePeriod,
		})
		if err != nil {
			return nil, fmt.Errorf("load persistent signing keys: %w", err)
		}
		logger.Info("signing keys loaded", append(attrs, "active", km.NumSigners(), "grace_period", cfg.KeyGracePeriod)...)
		return km, nil
	}

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		RSABits:   cfg.RSABits,
		NumKeys:   cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("generate signing keys: %w", err)
	}
	logger.Info("signing keys generated", append(attrs, "active", km.NumSigners())...)
	logger.Warn("ephemeral signing keys: tokens issued before this start no longer verify")
	return km, nil
}
