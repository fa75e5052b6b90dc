package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
	"github.com/aussiebroadwan/greencity/internal/auth/store"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
)

// UserService covers account administration: roles, statuses and
// deactivation reasons.
type UserService struct {
	Store store.Store
	Email *EmailService

	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UserService) byID(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound.withDetail(fmt.Sprintf(": user %d", id))
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *UserService) byEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrWrongEmail.withDetail(email)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// GetCurrentUser resolves the caller from the email in their access token.
func (s *UserService) GetCurrentUser(ctx context.Context, email string) (domain.User, error) {
	return s.byEmail(ctx, email)
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.byID(ctx, id)
}

func (s *UserService) GetLanguage(ctx context.Context, email string) (string, error) {
	u, err := s.byEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return domain.NormalizeLang(u.Language), nil
}

// Roles lists the assignable roles.
func (s *UserService) Roles() []domain.Role {
	return append([]domain.Role(nil), domain.Roles...)
}

// UpdateRole sets the role of user id on behalf of actorEmail.
func (s *UserService) UpdateRole(ctx context.Context, id int64, role domain.Role, actorEmail string) (domain.User, error) {
	target, err := s.byID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	actor, err := s.byEmail(ctx, actorEmail)
	if err != nil {
		return domain.User{}, err
	}
	if err := checkNotSelf(actor, target); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateRole(ctx, id, role); err != nil {
		return domain.User{}, fmt.Errorf("update role: %w", err)
	}
	slogx.FromContext(ctx).Info("user role updated",
		slog.Int64("user_id", id),
		slog.Int64("actor_id", actor.ID),
		slog.String("role", string(role)),
	)
	target.Role = role
	return target, nil
}

// UpdateStatus sets the status of user id on behalf of actorEmail. A
// moderator may only change plain users and employees.
func (s *UserService) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus, actorEmail string) (domain.User, error) {
	actor, err := s.byEmail(ctx, actorEmail)
	if err != nil {
		return domain.User{}, err
	}
	if actor.ID == id {
		return domain.User{}, ErrBadUpdateRequest
	}
	target, err := s.byID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := checkModeratorScope(actor, target); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateStatus(ctx, id, status); err != nil {
		return domain.User{}, fmt.Errorf("update status: %w", err)
	}
	slogx.FromContext(ctx).Info("user status updated",
		slog.Int64("user_id", id),
		slog.Int64("actor_id", actor.ID),
		slog.String("status", string(status)),
	)
	target.Status = status
	return target, nil
}

// DeactivateUser deactivates user id, records why and mails the user the
// reasons written in their language.
func (s *UserService) DeactivateUser(ctx context.Context, id int64, reasons []string) error {
	u, err := s.byID(ctx, id)
	if err != nil {
		return err
	}
	joined := strings.Join(reasons, "/")

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateStatus(ctx, id, domain.StatusDeactivated); err != nil {
			return fmt.Errorf("deactivate user: %w", err)
		}
		return tx.DeactivationReasons().CreateDeactivationReason(ctx, domain.DeactivationReason{
			UserID:        id,
			Reasons:       joined,
			DeactivatedAt: s.now(),
		})
	})
	if err != nil {
		return err
	}

	lang := domain.NormalizeLang(u.Language)
	s.Email.SendReasonOfDeactivation(ctx, u.Name, u.Email, FilterReasons(lang, joined), lang)
	return nil
}

// GetDeactivationReason returns the latest reasons for user id in
// adminLang, or in the user's own language when adminLang is empty.
func (s *UserService) GetDeactivationReason(ctx context.Context, id int64, adminLang string) ([]string, error) {
	r, err := s.Store.DeactivationReasons().GetLatestDeactivationReason(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound.withDetail(fmt.Sprintf(": deactivation reason of user %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("lookup deactivation reason: %w", err)
	}
	if adminLang == "" {
		u, err := s.byID(ctx, id)
		if err != nil {
			return nil, err
		}
		adminLang = u.Language
	}
	return FilterReasons(adminLang, r.Reasons), nil
}

// SetActivatedStatus reactivates user id and tells them so.
func (s *UserService) SetActivatedStatus(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.byID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Store.Users().UpdateStatus(ctx, id, domain.StatusActivated); err != nil {
		return domain.User{}, fmt.Errorf("activate user: %w", err)
	}
	u.Status = domain.StatusActivated
	s.Email.SendMessageOfActivation(ctx, u.Name, u.Email, domain.NormalizeLang(u.Language))
	return u, nil
}

// DeactivateAllUsers deactivates every listed user and returns the ids
// that existed.
func (s *UserService) DeactivateAllUsers(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	done, err := s.Store.Users().SetStatusForIDs(ctx, ids, domain.StatusDeactivated)
	if err != nil {
		return nil, fmt.Errorf("deactivate users: %w", err)
	}
	slogx.FromContext(ctx).Info("users deactivated", slog.Int("count", len(done)))
	return done, nil
}

func (s *UserService) CountActivatedUsers(ctx context.Context) (int64, error) {
	return s.Store.Users().CountByStatus(ctx, domain.StatusActivated)
}
