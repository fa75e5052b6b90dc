package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authority a user acts with.
type Role string

const (
	RoleUser        Role = "USER"
	RoleModerator   Role = "MODERATOR"
	RoleAdmin       Role = "ADMIN"
	RoleEmployee    Role = "EMPLOYEE"
	RoleUBSEmployee Role = "UBS_EMPLOYEE"
)

// Roles lists every role in declaration order.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin, RoleEmployee, RoleUBSEmployee}

// ParseRole accepts the bare name or the "ROLE_" prefixed form.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("domain: unknown role %q", s)
}

// IsPrivileged reports roles a moderator may not touch.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	StatusCreated     UserStatus = "CREATED"
	StatusActivated   UserStatus = "ACTIVATED"
	StatusDeactivated UserStatus = "DEACTIVATED"
	StatusBlocked     UserStatus = "BLOCKED"
)

var Statuses = []UserStatus{StatusCreated, StatusActivated, StatusDeactivated, StatusBlocked}

func ParseUserStatus(s string) (UserStatus, error) {
	st := UserStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("domain: unknown user status %q", s)
}

// Language codes a user can be mailed in.
const (
	LangEN = "en"
	LangUA = "ua"
)

// NormalizeLang maps "uk" to "ua" and anything unknown to English.
func NormalizeLang(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "ua", "uk":
		return LangUA
	default:
		return LangEN
	}
}

type User struct {
	ID              int64
	UUID            string
	Email           string
	Name            string
	Role            Role
	Status          UserStatus
	RefreshTokenKey string
	Language        string
	RegisteredAt    time.Time
	LastActivityAt  *time.Time
}
