package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
	"github.com/google/uuid"
)

var ErrBootstrapWeakPassword = errors.New("bootstrap admin password does not meet security criteria")

// BootstrapService seeds the first administrator so a fresh deployment can
// reach the ADMIN-only endpoints.
type BootstrapService struct {
	Store store.Store
}

// EnsureAdmin creates an activated ADMIN with the given password unless a
// user with that email already exists. It reports whether it created one.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, email, name, password string) (bool, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		l.Debug("bootstrap admin already present", slog.String("email", email))
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	if !IsValidPassword(password) {
		return false, ErrBootstrapWeakPassword
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	key, err := GenerateTokenKey()
	if err != nil {
		return false, err
	}
	if name == "" {
		name = "admin"
	}

	now := time.Now()
	var id int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		id, err = tx.Users().CreateUser(ctx, domain.User{
			UUID:            uuid.NewString(),
			Email:           email,
			Name:            name,
			Role:            domain.RoleAdmin,
			Status:          domain.StatusActivated,
			RefreshTokenKey: key,
			Language:        domain.LangEN,
			RegisteredAt:    now,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return tx.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: hash, UpdatedAt: now})
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Another instance won the race.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	l.Info("bootstrapped admin user", slog.Int64("user_id", id), slog.String("email", email))
	return true, nil
}
