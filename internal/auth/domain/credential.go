package domain

import "time"

// OwnSecurity is the local password of a user. Users created through a
// federated login have none.
type OwnSecurity struct {
	UserID       int64
	PasswordHash string
	UpdatedAt    time.Time
}

// VerifyEmail is a pending email confirmation. Its presence blocks sign in.
type VerifyEmail struct {
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
}

// RestorePasswordEmail is a password restore grant, at most one per user.
type RestorePasswordEmail struct {
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
}

// IsExpired reports whether the grant has lapsed at now.
func (r RestorePasswordEmail) IsExpired(now time.Time) bool { return !now.Before(r.ExpiresAt) }

// IsExpired reports whether the confirmation has lapsed at now.
func (v VerifyEmail) IsExpired(now time.Time) bool { return !now.Before(v.ExpiresAt) }

// DeactivationReason records why an account was deactivated. Reasons is
// "/" separated, each segment tagged {en} or {ua}.
type DeactivationReason struct {
	ID            int64
	UserID        int64
	Reasons       string
	DeactivatedAt time.Time
}
