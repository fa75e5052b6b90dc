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
	"github.com/aussiebroadwan/greencity/pkg/cryptox"
	"github.com/aussiebroadwan/greencity/pkg/slogx"
	"github.com/google/uuid"
)

// DefaultVerifyEmailTTL bounds both verification and restore links.
const DefaultVerifyEmailTTL = 24 * time.Hour

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	IsUbs    bool
}

type EmployeeSignUpInput struct {
	Name  string
	Email string
	UUID  string
	IsUbs bool
}

type RegisterInput struct {
	Name   string
	Email  string
	Role   domain.Role
	Status domain.UserStatus
}

type SignUpResult struct {
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Success bool   `json:"ownRegistrations"`
}

type SignInResult struct {
	UserID           int64  `json:"userId"`
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	Name             string `json:"name"`
	OwnRegistrations bool   `json:"ownRegistrations"`
}

// OwnSecurityService implements every flow around a user's own email and
// password. Multi-row writes run in one transaction; mail goes out only
// after commit.
type OwnSecurityService struct {
	Store     store.Store
	Tokens    *TokenService
	Email     *EmailService
	VerifyTTL time.Duration

	Now func() time.Time
}

func (s *OwnSecurityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OwnSecurityService) linkTTL() time.Duration {
	if s.VerifyTTL > 0 {
		return s.VerifyTTL
	}
	return DefaultVerifyEmailTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *OwnSecurityService) userByEmail(ctx context.Context, st store.Store, email string) (domain.User, error) {
	u, err := st.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrWrongEmail.withDetail(email)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// newAccount prepares an unsaved user with a fresh refresh key.
func (s *OwnSecurityService) newAccount(name, email, lang string, role domain.Role, status domain.UserStatus) (domain.User, error) {
	key, err := GenerateTokenKey()
	if err != nil {
		return domain.User{}, err
	}
	now := s.now()
	return domain.User{
		UUID:            uuid.NewString(),
		Email:           normalizeEmail(email),
		Name:            strings.TrimSpace(name),
		Role:            role,
		Status:          status,
		RefreshTokenKey: key,
		Language:        domain.NormalizeLang(lang),
		RegisteredAt:    now,
		LastActivityAt:  &now,
	}, nil
}

func createUser(ctx context.Context, tx store.Tx, u domain.User) (int64, error) {
	id, err := tx.Users().CreateUser(ctx, u)
	if errors.Is(err, store.ErrAlreadyExists) {
		return 0, ErrAlreadyRegistered
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// SignUp registers a CREATED user with a password and a pending email
// verification, then mails the verification link.
func (s *OwnSecurityService) SignUp(ctx context.Context, in SignUpInput, lang string) (SignUpResult, error) {
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.newAccount(in.Name, in.Email, lang, domain.RoleUser, domain.StatusCreated)
	if err != nil {
		return SignUpResult{}, err
	}
	token, err := GenerateTokenKey()
	if err != nil {
		return SignUpResult{}, err
	}

	now := s.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		id, err := createUser(ctx, tx, u)
		if err != nil {
			return err
		}
		u.ID = id
		if err := tx.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: hash, UpdatedAt: now}); err != nil {
			return fmt.Errorf("create own security: %w", err)
		}
		return tx.VerifyEmails().CreateVerifyEmail(ctx, domain.VerifyEmail{
			UserID:    id,
			TokenHash: cryptox.FingerprintToken(token),
			ExpiresAt: now.Add(s.linkTTL()),
		})
	})
	if err != nil {
		return SignUpResult{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", slog.Int64("user_id", u.ID))
	s.Email.SendVerificationEmail(ctx, u.ID, u.Name, u.Email, token, u.Language, in.IsUbs)
	return SignUpResult{UserID: u.ID, Name: u.Name, Email: u.Email, Success: true}, nil
}

// SignUpEmployee registers a UBS employee with a generated password. The
// employee activates the account by choosing a password through the
// mailed restore link.
func (s *OwnSecurityService) SignUpEmployee(ctx context.Context, in EmployeeSignUpInput, lang string) (SignUpResult, error) {
	u, token, err := s.registerWithRestoreLink(ctx, in.Name, in.Email, lang, domain.RoleUBSEmployee, domain.StatusCreated, in.UUID)
	if err != nil {
		return SignUpResult{}, err
	}
	s.Email.SendRestoreEmail(ctx, u.ID, u.Name, u.Email, token, u.Language, in.IsUbs)
	return SignUpResult{UserID: u.ID, Name: u.Name, Email: u.Email, Success: true}, nil
}

// ManagementRegisterUser creates an account on an administrator's behalf
// and mails the user a link to set their password.
func (s *OwnSecurityService) ManagementRegisterUser(ctx context.Context, in RegisterInput) (domain.User, error) {
	if _, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(in.Email)); err == nil {
		return domain.User{}, ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	status := in.Status
	if status == "" {
		status = domain.StatusCreated
	}
	u, token, err := s.registerWithRestoreLink(ctx, in.Name, in.Email, domain.LangEN, in.Role, status, "")
	if err != nil {
		return domain.User{}, err
	}
	s.Email.SendApprovalEmail(ctx, u.ID, u.Name, u.Email, token)
	return u, nil
}

func (s *OwnSecurityService) registerWithRestoreLink(
	ctx context.Context,
	name, email, lang string,
	role domain.Role,
	status domain.UserStatus,
	userUUID string,
) (domain.User, string, error) {
	password, err := GeneratePassword()
	if err != nil {
		return domain.User{}, "", err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	u, err := s.newAccount(name, email, lang, role, status)
	if err != nil {
		return domain.User{}, "", err
	}
	if userUUID != "" {
		u.UUID = userUUID
	}
	token, err := GenerateTokenKey()
	if err != nil {
		return domain.User{}, "", err
	}

	now := s.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		id, err := createUser(ctx, tx, u)
		if err != nil {
			return err
		}
		u.ID = id
		if err := tx.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: id, PasswordHash: hash, UpdatedAt: now}); err != nil {
			return fmt.Errorf("create own security: %w", err)
		}
		return tx.RestorePasswordEmails().ReplaceRestorePasswordEmail(ctx, domain.RestorePasswordEmail{
			UserID:    id,
			TokenHash: cryptox.FingerprintToken(token),
			ExpiresAt: now.Add(s.linkTTL()),
		})
	})
	if err != nil {
		return domain.User{}, "", err
	}
	slogx.FromContext(ctx).Info("user registered",
		slog.Int64("user_id", u.ID),
		slog.String("role", string(u.Role)),
	)
	return u, token, nil
}

// SignIn checks credentials and account state, in that order, and issues
// a token pair.
func (s *OwnSecurityService) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	l := slogx.FromContext(ctx)

	u, err := s.userByEmail(ctx, s.Store, email)
	if errors.Is(err, ErrWrongEmail) {
		return SignInResult{}, ErrSignInWrongEmail
	}
	if err != nil {
		return SignInResult{}, err
	}

	// A missing password row must look exactly like a wrong password.
	own, err := s.Store.OwnSecurity().GetOwnSecurity(ctx, u.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return SignInResult{}, ErrWrongPassword
	case err != nil:
		return SignInResult{}, fmt.Errorf("lookup own security: %w", err)
	}
	if err := cryptox.VerifyPassword(password, own.PasswordHash); err != nil {
		l.Info("sign in with wrong password", slog.Int64("user_id", u.ID))
		return SignInResult{}, ErrWrongPassword
	}

	if _, err := s.Store.VerifyEmails().GetVerifyEmail(ctx, u.ID); err == nil {
		return SignInResult{}, ErrEmailNotVerified
	} else if !errors.Is(err, store.ErrNotFound) {
		return SignInResult{}, fmt.Errorf("lookup verify email: %w", err)
	}

	if err := SignInError(u.Status); err != nil {
		return SignInResult{}, err
	}

	pair, err := s.Tokens.CreateTokenPair(u)
	if err != nil {
		return SignInResult{}, err
	}

	if err := s.Store.Users().UpdateLastActivity(ctx, u.ID, s.now()); err != nil {
		l.Warn("failed to record last activity", slog.Int64("user_id", u.ID), slog.Any("error", err))
	}
	if cryptox.NeedsRehash(own.PasswordHash) {
		s.rehash(ctx, u.ID, password)
	}

	return SignInResult{
		UserID:           u.ID,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		Name:             u.Name,
		OwnRegistrations: true,
	}, nil
}

// rehash upgrades a legacy hash after a successful sign in.
func (s *OwnSecurityService) rehash(ctx context.Context, userID int64, password string) {
	l := slogx.FromContext(ctx)
	hash, err := cryptox.HashPassword(password)
	if err == nil {
		err = s.Store.OwnSecurity().UpsertOwnSecurity(ctx, domain.OwnSecurity{UserID: userID, PasswordHash: hash, UpdatedAt: s.now()})
	}
	if err != nil {
		l.Warn("failed to upgrade password hash", slog.Int64("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("upgraded password hash", slog.Int64("user_id", userID))
}

// UpdateAccessTokens exchanges a refresh token for a new pair. The user's
// refresh key is rotated before the presented token is checked against the
// old key, so a refresh token works at most once and a replay also burns
// the key that was live.
func (s *OwnSecurityService) UpdateAccessTokens(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, ErrBadRefreshToken
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, claims.Email())
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, ErrBadRefreshToken
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := refreshError(u.Status); err != nil {
		return domain.TokenPair{}, err
	}

	oldKey := u.RefreshTokenKey
	newKey, err := GenerateTokenKey()
	if err != nil {
		return domain.TokenPair{}, err
	}
	swapped, err := s.Store.Users().SwapRefreshTokenKey(ctx, u.ID, oldKey, newKey)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("rotate refresh key: %w", err)
	}
	if !swapped || !s.Tokens.IsTokenValid(refreshToken, oldKey) {
		slogx.FromContext(ctx).Info("rejected refresh token", slog.Int64("user_id", u.ID), slog.Bool("raced", !swapped))
		return domain.TokenPair{}, ErrBadRefreshToken
	}

	u.RefreshTokenKey = newKey
	return s.Tokens.CreateTokenPair(u)
}

// ChangePassword replaces the password of userID after checking the
// current one. Existing refresh tokens stay valid.
func (s *OwnSecurityService) ChangePassword(ctx context.Context, userID int64, current, next, confirm string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound.withDetail(fmt.Sprintf(": user %d", userID))
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	own, err := s.Store.OwnSecurity().GetOwnSecurity(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound.withDetail(fmt.Sprintf(": password of user %d", userID))
		}
		return fmt.Errorf("lookup own security: %w", err)
	}
	if cryptox.VerifyPassword(current, own.PasswordHash) != nil {
		return ErrWrongPassword
	}
	if !IsValidPassword(next) {
		return ErrPasswordPolicy
	}
	if next != confirm {
		return ErrPasswordsDoNotMatch
	}
	return s.storePassword(ctx, s.Store, userID, next)
}

// UpdateCurrentPassword sets the password of an activated user without
// asking for the old one.
func (s *OwnSecurityService) UpdateCurrentPassword(ctx context.Context, email, password, confirm string) error {
	u, err := s.userByEmail(ctx, s.Store, email)
	if err != nil {
		return err
	}
	if u.Status != domain.StatusActivated {
		return ErrEmailNotVerified
	}
	if password != confirm {
		return ErrPasswordsDoNotMatch
	}
	return s.storePassword(ctx, s.Store, u.ID, password)
}

func (s *OwnSecurityService) HasPassword(ctx context.Context, email string) (bool, error) {
	u, err := s.userByEmail(ctx, s.Store, email)
	if err != nil {
		return false, err
	}
	_, err = s.Store.OwnSecurity().GetOwnSecurity(ctx, u.ID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup own security: %w", err)
	}
}

// SetPassword gives a passwordless account, such as one created through a
// federated login, its first password.
func (s *OwnSecurityService) SetPassword(ctx context.Context, email, password, confirm string) error {
	has, err := s.HasPassword(ctx, email)
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyHasPassword
	}
	if password != confirm {
		return ErrPasswordsDoNotMatch
	}
	u, err := s.userByEmail(ctx, s.Store, email)
	if err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.Store.OwnSecurity().CreateOwnSecurity(ctx, domain.OwnSecurity{UserID: u.ID, PasswordHash: hash, UpdatedAt: s.now()})
	if errors.Is(err, store.ErrAlreadyExists) {
		return ErrAlreadyHasPassword
	}
	return err
}

func (s *OwnSecurityService) storePassword(ctx context.Context, st store.Store, userID int64, password string) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := st.OwnSecurity().UpsertOwnSecurity(ctx, domain.OwnSecurity{UserID: userID, PasswordHash: hash, UpdatedAt: s.now()}); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// VerifyEmail confirms a sign up. The pending row is removed and the user
// becomes ACTIVATED.
func (s *OwnSecurityService) VerifyEmail(ctx context.Context, userID int64, token string) error {
	v, err := s.Store.VerifyEmails().GetVerifyEmail(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrBadVerifyEmailToken
	}
	if err != nil {
		return fmt.Errorf("lookup verify email: %w", err)
	}
	if !cryptox.EqualTokens(cryptox.FingerprintToken(token), v.TokenHash) {
		return ErrBadVerifyEmailToken
	}
	if v.IsExpired(s.now()) {
		return ErrVerifyEmailExpired
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.VerifyEmails().DeleteVerifyEmail(ctx, userID); err != nil {
			return fmt.Errorf("delete verify email: %w", err)
		}
		if err := tx.Users().UpdateStatus(ctx, userID, domain.StatusActivated); err != nil {
			return fmt.Errorf("activate user: %w", err)
		}
		return nil
	})
}

// RestorePassword mails a new restore link, replacing any earlier one.
func (s *OwnSecurityService) RestorePassword(ctx context.Context, email, lang string, isUbs bool) error {
	u, err := s.userByEmail(ctx, s.Store, email)
	if err != nil {
		return err
	}
	token, err := GenerateTokenKey()
	if err != nil {
		return err
	}
	err = s.Store.RestorePasswordEmails().ReplaceRestorePasswordEmail(ctx, domain.RestorePasswordEmail{
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: s.now().Add(s.linkTTL()),
	})
	if err != nil {
		return fmt.Errorf("store restore link: %w", err)
	}
	if lang == "" {
		lang = u.Language
	}
	s.Email.SendRestoreEmail(ctx, u.ID, u.Name, u.Email, token, domain.NormalizeLang(lang), isUbs)
	return nil
}

// UpdatePasswordByToken redeems a restore link. Following the link proves
// ownership of the address, so a CREATED account is activated too.
func (s *OwnSecurityService) UpdatePasswordByToken(ctx context.Context, token, password, confirm string) error {
	grant, err := s.Store.RestorePasswordEmails().GetRestorePasswordEmailByHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return ErrBadRestoreToken
	}
	if err != nil {
		return fmt.Errorf("lookup restore link: %w", err)
	}
	if grant.IsExpired(s.now()) {
		return ErrBadRestoreToken
	}
	if !IsValidPassword(password) {
		return ErrPasswordPolicy
	}
	if password != confirm {
		return ErrPasswordsDoNotMatch
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, grant.UserID)
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if err := s.storePassword(ctx, tx, u.ID, password); err != nil {
			return err
		}
		if err := tx.RestorePasswordEmails().DeleteRestorePasswordEmail(ctx, u.ID); err != nil {
			return fmt.Errorf("delete restore link: %w", err)
		}
		if u.Status == domain.StatusCreated {
			if err := tx.VerifyEmails().DeleteVerifyEmail(ctx, u.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("delete verify email: %w", err)
			}
			if err := tx.Users().UpdateStatus(ctx, u.ID, domain.StatusActivated); err != nil {
				return fmt.Errorf("activate user: %w", err)
			}
		}
		return nil
	})
}
