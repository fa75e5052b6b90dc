package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Users persists accounts.
type Users interface {
	// CreateUser inserts u and returns the assigned id. A taken email
	// yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	UpdateLastActivity(ctx context.Context, id int64, at time.Time) error

	// SwapRefreshTokenKey replaces the key only if it still equals oldKey.
	// It reports whether the swap happened.
	SwapRefreshTokenKey(ctx context.Context, id int64, oldKey, newKey string) (bool, error)

	// SetStatusForIDs updates every listed user and returns the ids that
	// existed.
	SetStatusForIDs(ctx context.Context, ids []int64, status domain.UserStatus) ([]int64, error)
	CountByStatus(ctx context.Context, status domain.UserStatus) (int64, error)
}

// OwnSecurity persists local passwords.
type OwnSecurity interface {
	GetOwnSecurity(ctx context.Context, userID int64) (domain.OwnSecurity, error)
	// CreateOwnSecurity fails with ErrAlreadyExists if the user has one.
	CreateOwnSecurity(ctx context.Context, os domain.OwnSecurity) error
	// UpsertOwnSecurity creates or replaces the password hash.
	UpsertOwnSecurity(ctx context.Context, os domain.OwnSecurity) error
}

type VerifyEmails interface {
	CreateVerifyEmail(ctx context.Context, v domain.VerifyEmail) error
	GetVerifyEmail(ctx context.Context, userID int64) (domain.VerifyEmail, error)
	DeleteVerifyEmail(ctx context.Context, userID int64) error
	DeleteExpiredVerifyEmails(ctx context.Context, now time.Time) (int64, error)
}

type RestorePasswordEmails interface {
	// ReplaceRestorePasswordEmail drops any previous grant for the user.
	ReplaceRestorePasswordEmail(ctx context.Context, r domain.RestorePasswordEmail) error
	GetRestorePasswordEmailByHash(ctx context.Context, tokenHash string) (domain.RestorePasswordEmail, error)
	DeleteRestorePasswordEmail(ctx context.Context, userID int64) error
	DeleteExpiredRestorePasswordEmails(ctx context.Context, now time.Time) (int64, error)
}

type DeactivationReasons interface {
	CreateDeactivationReason(ctx context.Context, r domain.DeactivationReason) error
	// GetLatestDeactivationReason returns the most recent row for the user.
	GetLatestDeactivationReason(ctx context.Context, userID int64) (domain.DeactivationReason, error)
}

type SigningKeys interface {
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error
	GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error)
	ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error)
	ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error)
	RetireSigningKey(ctx context.Context, kid string) error
	DeleteExpiredSigningKeys(ctx context.Context) error
}

// Tx is a transactional Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Store is implemented by every database driver.
type Store interface {
	Users() Users
	OwnSecurity() OwnSecurity
	VerifyEmails() VerifyEmails
	RestorePasswordEmails() RestorePasswordEmails
	DeactivationReasons() DeactivationReasons
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx begins a transaction. Transactions do not nest.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}
