package sqlbase

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
)

const userColumns = `id, uuid, email, name, role, status, refresh_token_key, language, registered_at, last_activity_at`

type usersRepo struct {
	db DBTX
	d  Dialect
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u            domain.User
		role, status string
		lastActivity sql.NullTime
	)
	err := row.Scan(&u.ID, &u.UUID, &u.Email, &u.Name, &role, &status,
		&u.RefreshTokenKey, &u.Language, &u.RegisteredAt, &lastActivity)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(status)
	u.LastActivityAt = mapNullTimePtr(lastActivity)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.d.Rebind(`
		INSERT INTO users (uuid, email, name, role, status, refresh_token_key, language, registered_at, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		u.UUID, strings.ToLower(u.Email), u.Name, string(u.Role), string(u.Status),
		u.RefreshTokenKey, u.Language, ts(u.RegisteredAt), mapOptionalTime(u.LastActivityAt),
	).Scan(&id)
	if err != nil {
		return 0, r.d.mapWriteErr(err)
	}
	return id, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), strings.ToLower(email)))
}

func (r *usersRepo) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		r.d.Rebind(`UPDATE users SET status = ? WHERE id = ?`), string(status), id))
}

func (r *usersRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		r.d.Rebind(`UPDATE users SET role = ? WHERE id = ?`), string(role), id))
}

func (r *usersRepo) UpdateLastActivity(ctx context.Context, id int64, at time.Time) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		r.d.Rebind(`UPDATE users SET last_activity_at = ? WHERE id = ?`), ts(at), id))
}

func (r *usersRepo) SwapRefreshTokenKey(ctx context.Context, id int64, oldKey, newKey string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		r.d.Rebind(`UPDATE users SET refresh_token_key = ? WHERE id = ? AND refresh_token_key = ?`),
		newKey, id, oldKey)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *usersRepo) SetStatusForIDs(ctx context.Context, ids []int64, status domain.UserStatus) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, string(status))
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	rows, err := r.db.QueryContext(ctx,
		r.d.Rebind(`UPDATE users SET status = ? WHERE id IN (`+placeholders+`) RETURNING id`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updated := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		updated = append(updated, id)
	}
	return updated, rows.Err()
}

func (r *usersRepo) CountByStatus(ctx context.Context, status domain.UserStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		r.d.Rebind(`SELECT COUNT(*) FROM users WHERE status = ?`), string(status)).Scan(&n)
	return n, err
}
