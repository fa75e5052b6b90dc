package sqlbase

import (
	"context"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
)

type ownSecurityRepo struct {
	db DBTX
	d  Dialect
}

func (r *ownSecurityRepo) GetOwnSecurity(ctx context.Context, userID int64) (domain.OwnSecurity, error) {
	var os domain.OwnSecurity
	err := r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT user_id, password_hash, updated_at FROM own_security WHERE user_id = ?`), userID,
	).Scan(&os.UserID, &os.PasswordHash, &os.UpdatedAt)
	if err != nil {
		return domain.OwnSecurity{}, mapNotFound(err)
	}
	return os, nil
}

func (r *ownSecurityRepo) CreateOwnSecurity(ctx context.Context, os domain.OwnSecurity) error {
	_, err := r.db.ExecContext(ctx,
		r.d.Rebind(`INSERT INTO own_security (user_id, password_hash, updated_at) VALUES (?, ?, ?)`),
		os.UserID, os.PasswordHash, ts(os.UpdatedAt))
	return r.d.mapWriteErr(err)
}

func (r *ownSecurityRepo) UpsertOwnSecurity(ctx context.Context, os domain.OwnSecurity) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(`
		INSERT INTO own_security (user_id, password_hash, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`),
		os.UserID, os.PasswordHash, ts(os.UpdatedAt))
	return err
}

type verifyEmailsRepo struct {
	db DBTX
	d  Dialect
}

func (r *verifyEmailsRepo) CreateVerifyEmail(ctx context.Context, v domain.VerifyEmail) error {
	_, err := r.db.ExecContext(ctx,
		r.d.Rebind(`INSERT INTO verify_emails (user_id, token_hash, expires_at) VALUES (?, ?, ?)`),
		v.UserID, v.TokenHash, ts(v.ExpiresAt))
	return r.d.mapWriteErr(err)
}

func (r *verifyEmailsRepo) GetVerifyEmail(ctx context.Context, userID int64) (domain.VerifyEmail, error) {
	var v domain.VerifyEmail
	err := r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT user_id, token_hash, expires_at FROM verify_emails WHERE user_id = ?`), userID,
	).Scan(&v.UserID, &v.TokenHash, &v.ExpiresAt)
	if err != nil {
		return domain.VerifyEmail{}, mapNotFound(err)
	}
	return v, nil
}

func (r *verifyEmailsRepo) DeleteVerifyEmail(ctx context.Context, userID int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		r.d.Rebind(`DELETE FROM verify_emails WHERE user_id = ?`), userID))
}

func (r *verifyEmailsRepo) DeleteExpiredVerifyEmails(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		r.d.Rebind(`DELETE FROM verify_emails WHERE expires_at <= ?`), ts(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type restoreEmailsRepo struct {
	db DBTX
	d  Dialect
}

func (r *restoreEmailsRepo) ReplaceRestorePasswordEmail(ctx context.Context, e domain.RestorePasswordEmail) error {
	_, err := r.db.ExecContext(ctx, r.d.Rebind(`
		INSERT INTO restore_password_emails (user_id, token_hash, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET token_hash = excluded.token_hash, expires_at = excluded.expires_at`),
		e.UserID, e.TokenHash, ts(e.ExpiresAt))
	return r.d.mapWriteErr(err)
}

func (r *restoreEmailsRepo) GetRestorePasswordEmailByHash(ctx context.Context, tokenHash string) (domain.RestorePasswordEmail, error) {
	var e domain.RestorePasswordEmail
	err := r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT user_id, token_hash, expires_at FROM restore_password_emails WHERE token_hash = ?`), tokenHash,
	).Scan(&e.UserID, &e.TokenHash, &e.ExpiresAt)
	if err != nil {
		return domain.RestorePasswordEmail{}, mapNotFound(err)
	}
	return e, nil
}

func (r *restoreEmailsRepo) DeleteRestorePasswordEmail(ctx context.Context, userID int64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		r.d.Rebind(`DELETE FROM restore_password_emails WHERE user_id = ?`), userID))
}

func (r *restoreEmailsRepo) DeleteExpiredRestorePasswordEmails(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		r.d.Rebind(`DELETE FROM restore_password_emails WHERE expires_at <= ?`), ts(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type reasonsRepo struct {
	db DBTX
	d  Dialect
}

func (r *reasonsRepo) CreateDeactivationReason(ctx context.Context, dr domain.DeactivationReason) error {
	_, err := r.db.ExecContext(ctx,
		r.d.Rebind(`INSERT INTO user_deactivation_reasons (user_id, reasons, deactivated_at) VALUES (?, ?, ?)`),
		dr.UserID, dr.Reasons, ts(dr.DeactivatedAt))
	return err
}

func (r *reasonsRepo) GetLatestDeactivationReason(ctx context.Context, userID int64) (domain.DeactivationReason, error) {
	var dr domain.DeactivationReason
	err := r.db.QueryRowContext(ctx, r.d.Rebind(`
		SELECT id, user_id, reasons, deactivated_at FROM user_deactivation_reasons
		WHERE user_id = ? ORDER BY deactivated_at DESC, id DESC LIMIT 1`), userID,
	).Scan(&dr.ID, &dr.UserID, &dr.Reasons, &dr.DeactivatedAt)
	if err != nil {
		return domain.DeactivationReason{}, mapNotFound(err)
	}
	return dr, nil
}
