package domain

import "time"

// SigningKey is a persisted JWT signing key. The private key is sealed at
// rest; retired keys only verify until ExpiresAt.
type SigningKey struct {
	ID                  string // ULID
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           time.Time
}

func (k *SigningKey) IsActive(now time.Time) bool {
	return k.RetiredAt == nil && now.Before(k.ExpiresAt)
}

func (k *SigningKey) IsExpired(now time.Time) bool {
	return !now.Before(k.ExpiresAt)
}
