package authsdk

import (
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of a domain failure, e.g.
// {"name":"WrongPassword","message":"Bad password"}.
type ErrorResponse struct {
	// Name is the error kind (WrongEmail, BadRefreshToken, ...)
	Name string `json:"name"`

	// Message is a human-readable description of the error
	Message string `json:"message"`
}

// FieldError is one entry of a validation failure. The server answers 400
// with a JSON array of these when a request body or parameter is invalid.
type FieldError struct {
	// Name is the offending field
	Name string `json:"name"`

	// Message explains what is wrong with it
	Message string `json:"message"`
}

// GateErrorResponse is written by the authorization gate and rate limiter
// (401, 403, 429).
type GateErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// ============================================================================
// Own Security Types
// ============================================================================

// SignUpRequest registers a user with an email and password.
type SignUpRequest struct {
	Name     string `json:"name" example:"Olena"`
	Email    string `json:"email" example:"olena@example.com"`
	Password string `json:"password" example:"Secret123!"`
	IsUbs    bool   `json:"isUbs"`
}

// SuccessSignUp is returned by POST /ownSecurity/signUp.
type SuccessSignUp struct {
	UserID           int64  `json:"userId"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	OwnRegistrations bool   `json:"ownRegistrations"`
}

// SignInRequest authenticates with an email and password.
type SignInRequest struct {
	Email    string `json:"email" example:"olena@example.com"`
	Password string `json:"password" example:"Secret123!"`
}

// SuccessSignIn is returned by POST /ownSecurity/signIn.
type SuccessSignIn struct {
	UserID           int64  `json:"userId"`
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	Name             string `json:"name"`
	OwnRegistrations bool   `json:"ownRegistrations"`
}

// TokenPair is returned by GET /ownSecurity/updateAccessToken. The refresh
// token used to obtain it is no longer valid.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RestorePasswordRequest completes a password restore started by email.
type RestorePasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdatePasswordRequest replaces the caller's password
// (PUT /ownSecurity/changePassword) or sets the first one
// (POST /ownSecurity/set-password).
type UpdatePasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePasswordRequest changes the caller's password after checking the
// current one (POST /user/changePassword).
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordStatus reports whether the caller can sign in with a password.
type PasswordStatus struct {
	HasPassword bool `json:"hasPassword"`
}

// EmployeeSignUpRequest registers a UBS employee. The employee sets their
// password through the restore link mailed to them.
type EmployeeSignUpRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	UUID  string `json:"uuid"`
	IsUbs bool   `json:"isUbs"`
}

// RegisterUserRequest creates an account from the management panel.
type RegisterUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role" example:"USER"`
	UserStatus string `json:"userStatus" example:"ACTIVATED"`
}

// ============================================================================
// User Types
// ============================================================================

// UserInfo is the public view of a user.
type UserInfo struct {
	ID             int64   `json:"id"`
	UUID           string  `json:"uuid"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	UserStatus     string  `json:"userStatus"`
	Language       string  `json:"languageCode"`
	DateOfRegistry string  `json:"dateOfRegistration"`
	LastActivity   *string `json:"lastActivityTime,omitempty"`
}

// UserStatusRequest changes a user's status (PATCH /user/status).
type UserStatusRequest struct {
	ID         int64  `json:"id"`
	UserStatus string `json:"userStatus" example:"BLOCKED"`
}

// UserStatusResponse echoes the updated status.
type UserStatusResponse struct {
	ID         int64  `json:"id"`
	UserStatus string `json:"userStatus"`
}

// UserRoleRequest changes a user's role (PATCH /user/{id}/role).
type UserRoleRequest struct {
	Role string `json:"role" example:"MODERATOR"`
}

// UserRoleResponse echoes the updated role.
type UserRoleResponse struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

// RolesResponse lists the assignable roles.
type RolesResponse struct {
	Roles []string `json:"roles"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the JSON Web Key Set served at
// GET /.well-known/jwks.json.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Key Rotation Types
// ============================================================================

// RotateKeyRequest represents a request to rotate signing keys.
type RotateKeyRequest struct {
	// RetireExisting will mark current active keys as retired if true.
	// If false, new key is added alongside existing keys.
	RetireExisting bool `json:"retire_existing"`
}

// SigningKeyInfo represents a JWT signing key with its metadata.
type SigningKeyInfo struct {
	ID        string  `json:"id"`                   // ULID
	Kid       string  `json:"kid"`                  // Key identifier in JWKS
	Algorithm string  `json:"algorithm"`            // RS256, ES256, or EdDSA
	CreatedAt string  `json:"created_at"`           // RFC3339 timestamp
	RetiredAt *string `json:"retired_at,omitempty"` // RFC3339 timestamp (null if active)
	ExpiresAt string  `json:"expires_at"`           // RFC3339 timestamp
}

// RotateKeyResponse represents the result of a key rotation operation.
type RotateKeyResponse struct {
	NewKey      SigningKeyInfo   `json:"new_key"`
	RetiredKeys []SigningKeyInfo `json:"retired_keys,omitempty"`
	ActiveKeys  int              `json:"active_keys"`
}
