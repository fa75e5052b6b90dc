package service

import (
	"errors"
)

// Kind groups domain errors for the transport layer.
type Kind string

const (
	KindWrongEmail          Kind = "WrongEmail"
	KindWrongPassword       Kind = "WrongPassword"
	KindEmailNotVerified    Kind = "EmailNotVerified"
	KindBadUserStatus       Kind = "BadUserStatus"
	KindBadRefreshToken     Kind = "BadRefreshToken"
	KindAlreadyRegistered   Kind = "AlreadyRegistered"
	KindAlreadyHasPassword  Kind = "AlreadyHasPassword"
	KindPasswordsDoNotMatch Kind = "PasswordsDoNotMatch"
	KindBadRequest          Kind = "BadRequest"
	KindLowRoleLevel        Kind = "LowRoleLevel"
	KindBadUpdateRequest    Kind = "BadUpdateRequest"
	KindNotFound            Kind = "NotFound"
)

// Error is a domain failure a client is allowed to see.
type Error struct {
	Kind    Kind
	Message string
	id      string
}

func (e *Error) Error() string { return e.Message }

// Is matches the sentinel e was derived from, ignoring any detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.id == e.id
}

// withDetail returns a copy of e with detail appended to the message.
func (e *Error) withDetail(detail string) *Error {
	c := *e
	c.Message += detail
	return &c
}

func newError(id string, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, id: id}
}

var (
	ErrWrongEmail          = newError("wrong_email", KindWrongEmail, "The user does not exist by this email: ")
	ErrWrongPassword       = newError("wrong_password", KindWrongPassword, "Bad password")
	ErrEmailNotVerified    = newError("email_not_verified", KindEmailNotVerified, "You should verify the email first, check your email box!")
	ErrUserDeactivated     = newError("user_deactivated", KindBadUserStatus, "User is deactivated")
	ErrUserBlocked         = newError("user_blocked", KindBadUserStatus, "User is blocked")
	ErrUserCreated         = newError("user_created", KindBadUserStatus, "User is not activated yet")
	ErrBadRefreshToken     = newError("bad_refresh_token", KindBadRefreshToken, "Refresh token not valid!")
	ErrAlreadyRegistered   = newError("already_registered", KindAlreadyRegistered, "User with this email is already registered")
	ErrAlreadyHasPassword  = newError("already_has_password", KindAlreadyHasPassword, "User already has a password")
	ErrPasswordsDoNotMatch = newError("passwords_do_not_match", KindPasswordsDoNotMatch, "The passwords do not match")
	ErrPasswordPolicy      = newError("password_policy", KindBadRequest, "New password does not meet security criteria")
	ErrLowRoleLevel        = newError("low_role_level", KindLowRoleLevel, "You do not have enough authorities to update this user")
	ErrBadUpdateRequest    = newError("bad_update_request", KindBadUpdateRequest, "User can't update his own role or status")
	ErrNotFound            = newError("not_found", KindNotFound, "Not found")

	ErrBadVerifyEmailToken = newError("bad_verify_email_token", KindBadRequest, "No email to verify by this token")
	ErrVerifyEmailExpired  = newError("verify_email_expired", KindBadRequest, "Email verification token has expired")
	ErrBadRestoreToken     = newError("bad_restore_token", KindBadRequest, "Password restore link is not valid or has expired")

	// ErrSignInWrongEmail matches ErrWrongEmail but never echoes the address.
	ErrSignInWrongEmail = newError("wrong_email", KindWrongEmail, "The user does not exist by this email")
)

// AsError extracts the domain error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
