package service

import (
	"strings"

	"github.com/aussiebroadwan/greencity/internal/auth/domain"
)

// CanSignIn reports whether an account in status may obtain tokens.
func CanSignIn(status domain.UserStatus) bool {
	return status == domain.StatusActivated
}

// SignInError is the error sign in returns for status, or nil.
func SignInError(status domain.UserStatus) error {
	switch status {
	case domain.StatusActivated:
		return nil
	case domain.StatusDeactivated:
		return ErrUserDeactivated
	case domain.StatusBlocked:
		return ErrUserBlocked
	default:
		return ErrUserCreated
	}
}

// refreshError is the status gate for token refresh. CREATED users may
// refresh, they just cannot sign in again.
func refreshError(status domain.UserStatus) error {
	switch status {
	case domain.StatusBlocked:
		return ErrUserBlocked
	case domain.StatusDeactivated:
		return ErrUserDeactivated
	}
	return nil
}

// checkNotSelf rejects an actor editing their own role or status.
func checkNotSelf(actor, target domain.User) error {
	if actor.ID == target.ID {
		return ErrBadUpdateRequest
	}
	return nil
}

// checkModeratorScope stops a moderator from touching moderators or admins.
func checkModeratorScope(actor, target domain.User) error {
	if actor.Role == domain.RoleModerator && target.Role.IsPrivileged() {
		return ErrLowRoleLevel
	}
	return nil
}

// FilterReasons picks the segments of a "/" separated reason string tagged
// for lang and strips the tags. "uk" is read as "ua"; other languages
// yield nothing.
func FilterReasons(lang, reasons string) []string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "uk" {
		lang = domain.LangUA
	}
	if lang != domain.LangEN && lang != domain.LangUA {
		return []string{}
	}
	tag := "{" + lang + "}"

	out := []string{}
	for _, seg := range strings.Split(reasons, "/") {
		if !strings.Contains(seg, tag) {
			continue
		}
		out = append(out, strings.TrimSpace(strings.ReplaceAll(seg, tag, "")))
	}
	return out
}
