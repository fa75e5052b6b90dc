package sqlbase

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
)

const signingKeyColumns = `id, kid, algorithm, private_key_encrypted, created_at, retired_at, expires_at`

type signingKeysRepo struct {
	db DBTX
	d  Dialect
}

func scanSigningKey(row scanner) (domain.SigningKey, error) {
	var (
		k       domain.SigningKey
		retired sql.NullTime
	)
	if err := row.Scan(&k.ID, &k.Kid, &k.Algorithm, &k.PrivateKeyEncrypted, &k.CreatedAt, &retired, &k.ExpiresAt); err != nil {
		return domain.SigningKey{}, mapNotFound(err)
	}
	k.RetiredAt = mapNullTimePtr(retired)
	return k, nil
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(`
		INSERT INTO signing_keys (`+signingKeyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		key.ID, key.Kid, key.Algorithm, key.PrivateKeyEncrypted,
		ts(key.CreatedAt), mapOptionalTime(key.RetiredAt), ts(key.ExpiresAt))
	return r.d.mapWriteErr(err)
}

func (r *signingKeysRepo) GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error) {
	return scanSigningKey(r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT `+signingKeyColumns+` FROM signing_keys WHERE kid = ?`), kid))
}

func (r *signingKeysRepo) ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	return r.list(ctx, `SELECT `+signingKeyColumns+` FROM signing_keys
		WHERE retired_at IS NULL AND expires_at > ? ORDER BY created_at`, ts(time.Now()))
}

// ListAllSigningKeys includes retired keys that have not yet expired.
func (r *signingKeysRepo) ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	return r.list(ctx, `SELECT `+signingKeyColumns+` FROM signing_keys
		WHERE expires_at > ? ORDER BY created_at`, ts(time.Now()))
}

func (r *signingKeysRepo) list(ctx context.Context, query string, args ...any) ([]domain.SigningKey, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.SigningKey
	for rows.Next() {
		k, err := scanSigningKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RetireSigningKey keeps the first retirement time if called twice.
func (r *signingKeysRepo) RetireSigningKey(ctx context.Context, kid string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		r.d.Rebind(`UPDATE signing_keys SET retired_at = COALESCE(retired_at, ?) WHERE kid = ?`),
		ts(time.Now()), kid))
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		r.d.Rebind(`DELETE FROM signing_keys WHERE expires_at <= ?`), ts(time.Now()))
	return err
}
