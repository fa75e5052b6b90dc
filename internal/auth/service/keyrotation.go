package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
)

var ErrKeyAlreadyRetired = errors.New("signing key already retired")

// KeyRotationService rotates and retires JWT signing keys at runtime.
//
// With a nil Store keys live only in the KeyManager and retired keys keep
// verifying until restart. With a Store new keys are sealed and persisted,
// and every key verifies until its stored expiry.
type KeyRotationService struct {
	Store       store.Store
	KeyManager  *jwtx.KeyManager
	GracePeriod time.Duration
}

type RotateKeyRequest struct {
	// RetireExisting stops signing with every current key.
	RetireExisting bool
}

type RotateKeyResponse struct {
	NewKey      domain.SigningKey   `json:"new_key"`
	RetiredKeys []domain.SigningKey `json:"retired_keys,omitempty"`
	ActiveKeys  int                 `json:"active_keys"`
}

func (s *KeyRotationService) grace() time.Duration {
	if s.GracePeriod > 0 {
		return s.GracePeriod
	}
	return jwtx.DefaultGracePeriod
}

// RotateKey adds a new signing key and optionally retires the others.
func (s *KeyRotationService) RotateKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResponse, error) {
	if s.KeyManager == nil {
		return nil, errors.New("key manager is required")
	}
	now := time.Now().UTC()

	rec, signer, err := s.KeyManager.NewRecord(now, s.grace())
	if err != nil {
		return nil, err
	}
	newKey := domain.SigningKey(rec)

	var retired []domain.SigningKey
	if s.Store != nil {
		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.SigningKeys().CreateSigningKey(ctx, newKey); err != nil {
				return fmt.Errorf("store signing key: %w", err)
			}
			if !req.RetireExisting {
				return nil
			}
			active, err := tx.SigningKeys().ListActiveSigningKeys(ctx)
			if err != nil {
				return fmt.Errorf("list active keys: %w", err)
			}
			for _, k := range active {
				if k.Kid == newKey.Kid {
					continue
				}
				if err := tx.SigningKeys().RetireSigningKey(ctx, k.Kid); err != nil {
					return fmt.Errorf("retire key %s: %w", k.Kid, err)
				}
				k.RetiredAt = &now
				retired = append(retired, k)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		newKey.PrivateKeyEncrypted = nil
		if req.RetireExisting {
			for _, cur := range s.KeyManager.GetSigners() {
				retired = append(retired, domain.SigningKey{
					Kid:       cur.KID(),
					Algorithm: cur.Alg(),
					RetiredAt: &now,
				})
			}
		}
	}

	// Add first so retiring never hits the last-signer guard.
	if err := s.KeyManager.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("add signer: %w", err)
	}
	for _, k := range retired {
		if err := s.KeyManager.RetireSignerByKid(k.Kid); err != nil {
			slogx.FromContext(ctx).Warn("key not loaded in key manager",
				slog.String("kid", k.Kid),
				slog.Any("error", err),
			)
		}
	}

	slogx.FromContext(ctx).Info("signing key rotated",
		slog.String("kid", newKey.Kid),
		slog.Int("retired", len(retired)),
	)
	newKey.PrivateKeyEncrypted = nil
	for i := range retired {
		retired[i].PrivateKeyEncrypted = nil
	}
	return &RotateKeyResponse{
		NewKey:      newKey,
		RetiredKeys: retired,
		ActiveKeys:  s.KeyManager.NumSigners(),
	}, nil
}

// ListSigningKeys returns stored keys in persistent mode and the active
// signers otherwise. Private material is never included.
func (s *KeyRotationService) ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	if s.Store != nil {
		keys, err := s.Store.SigningKeys().ListAllSigningKeys(ctx)
		if err != nil {
			return nil, err
		}
		for i := range keys {
			keys[i].PrivateKeyEncrypted = nil
		}
		return keys, nil
	}
	if s.KeyManager == nil {
		return nil, errors.New("key manager is required")
	}

	signers := s.KeyManager.GetSigners()
	keys := make([]domain.SigningKey, len(signers))
	for i, sg := range signers {
		keys[i] = domain.SigningKey{Kid: sg.KID(), Algorithm: sg.Alg()}
	}
	return keys, nil
}

// RetireKey stops signing with kid. Tokens it signed keep verifying.
func (s *KeyRotationService) RetireKey(ctx context.Context, kid string) error {
	if s.KeyManager == nil {
		return errors.New("key manager is required")
	}
	if s.Store == nil {
		return s.KeyManager.RetireSignerByKid(kid)
	}

	key, err := s.Store.SigningKeys().GetSigningKeyByKid(ctx, kid)
	if err != nil {
		return fmt.Errorf("lookup key: %w", err)
	}
	if key.RetiredAt != nil {
		return fmt.Errorf("%w: %s", ErrKeyAlreadyRetired, kid)
	}
	// Fails on the last signer before anything is written.
	if err := s.KeyManager.RetireSignerByKid(kid); err != nil {
		return err
	}
	if err := s.Store.SigningKeys().RetireSigningKey(ctx, kid); err != nil {
		return fmt.Errorf("retire key: %w", err)
	}
	return nil
}
