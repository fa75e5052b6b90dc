// Package auth holds the OpenAPI document served under /swagger/.
//
// It mirrors the swag annotations on the handlers in internal/auth/http;
// regenerate with:
//
//	swag init -g internal/auth/http/router.go -o api/auth --outputTypes go
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/greencity"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ownSecurity/signUp": {
            "post": {
                "description": "Registers a user and mails a verification link in the requested language",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Sign up",
                "parameters": [
                    {"type": "string", "description": "Mail language (en, ua)", "name": "lang", "in": "query"},
                    {"description": "New account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.SignUpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.SuccessSignUp"}},
                    "400": {"description": "Validation failed", "schema": {"type": "array", "items": {"$ref": "#/definitions/authsdk.FieldError"}}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/ownSecurity/signIn": {
            "post": {
                "description": "Checks the email, the password, pending verification and account status in that order and issues a token pair",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.SuccessSignIn"}},
                    "400": {"description": "WrongEmail, WrongPassword, EmailNotVerified or BadUserStatus", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/ownSecurity/updateAccessToken": {
            "get": {
                "description": "Exchanges a refresh token for a new pair. The presented token is burned even when the call fails.",
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Refresh tokens",
                "parameters": [
                    {"type": "string", "description": "Refresh token", "name": "refreshToken", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenPair"}},
                    "400": {"description": "BadUserStatus", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "401": {"description": "BadRefreshToken", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/ownSecurity/verifyEmail": {
            "get": {
                "description": "Confirms an address with the token from the verification mail and activates the account",
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Verify email",
                "parameters": [
                    {"type": "string", "description": "Token from the mail", "name": "token", "in": "query", "required": true},
                    {"type": "integer", "description": "User id", "name": "user_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "boolean"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/ownSecurity/restorePassword": {
            "get": {
                "description": "Mails a single-use restore link. An earlier link for the same user stops working.",
                "tags": ["Own Security"],
                "summary": "Start password restore",
                "parameters": [
                    {"type": "string", "description": "Account email", "name": "email", "in": "query", "required": true},
                    {"type": "string", "description": "Mail language, defaults to the user's", "name": "lang", "in": "query"},
                    {"type": "boolean", "description": "Link into the UBS client", "name": "ubs", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No user with this email", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/ownSecurity/updatePassword": {
            "post": {
                "description": "Sets a new password with a restore token. A not yet verified account is activated.",
                "consumes": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Finish password restore",
                "parameters": [
                    {"description": "Token and new password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RestorePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/ownSecurity/changePassword": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the caller's password without asking for the current one",
                "consumes": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Replace password",
                "parameters": [
                    {"description": "New password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.UpdatePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/ownSecurity/password-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Reports whether the caller has a password",
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Password status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.PasswordStatus"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/ownSecurity/set-password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Gives a password to an account created without one",
                "consumes": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Set first password",
                "parameters": [
                    {"description": "Password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.UpdatePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "AlreadyHasPassword or PasswordsDoNotMatch", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/ownSecurity/sign-up-employee": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a UBS_EMPLOYEE account and mails a link to set the password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Register UBS employee",
                "parameters": [
                    {"type": "string", "description": "Mail language", "name": "lang", "in": "query"},
                    {"description": "Employee", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.EmployeeSignUpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.SuccessSignUp"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/ownSecurity/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates an account with the given role and status and mails an approval link",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Own Security"],
                "summary": "Register user from management",
                "parameters": [
                    {"description": "Account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RegisterUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.UserInfo"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.UserInfo"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/user/changePassword": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Checks the current password, then the complexity of the new one, then the confirmation. Refresh tokens stay valid.",
                "consumes": ["application/json"],
                "tags": ["Users"],
                "summary": "Change password",
                "parameters": [
                    {"description": "Passwords", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user/lang": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/plain"],
                "tags": ["Users"],
                "summary": "Current user's language",
                "responses": {
                    "200": {"description": "en or ua", "schema": {"type": "string"}}
                }
            }
        },
        "/user/roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Assignable roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.RolesResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/user/activatedUsersAmount": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Number of activated users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "integer"}}
                }
            }
        },
        "/user/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Nobody can change their own status. Moderators cannot touch admins or other moderators.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Change user status",
                "parameters": [
                    {"description": "Target and status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.UserStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.UserStatusResponse"}},
                    "400": {"description": "BadUpdateRequest", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "403": {"description": "LowRoleLevel", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user/{id}/role": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Change user role",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.UserRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.UserRoleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user/deactivate": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the reasons and mails the ones in the user's language",
                "consumes": ["application/json"],
                "tags": ["Users"],
                "summary": "Deactivate user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "query", "required": true},
                    {"description": "Reasons tagged {en}..{en} or {ua}..{ua}", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "string"}}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user/activate": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Activate user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user/reasons": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Deactivation reasons",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "query", "required": true},
                    {"type": "string", "description": "Language to show the reasons in", "name": "admin", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/user/deactivateAll": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Deactivate many users",
                "parameters": [
                    {"description": "User ids", "name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "integer"}}}
                ],
                "responses": {
                    "200": {"description": "Ids that existed", "schema": {"type": "array", "items": {"type": "integer"}}}
                }
            }
        },
        "/management/keys": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List signing keys with their status. Private material is never returned.",
                "produces": ["application/json"],
                "tags": ["Keys"],
                "summary": "List signing keys",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/authsdk.SigningKeyInfo"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/management/keys/rotate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Generate a new signing key and optionally retire existing keys",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Keys"],
                "summary": "Rotate signing keys",
                "parameters": [
                    {"description": "Rotation options", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/authsdk.RotateKeyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.RotateKeyResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/authsdk.GateErrorResponse"}}
                }
            }
        },
        "/management/keys/{kid}/retire": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stop signing with a key. Tokens it signed keep verifying until it expires.",
                "tags": ["Keys"],
                "summary": "Retire a signing key",
                "parameters": [
                    {"type": "string", "description": "Key ID to retire", "name": "kid", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Key retired"},
                    "404": {"description": "Key not found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "409": {"description": "Already retired or last active key", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/.well-known/jwks.json": {
            "get": {
                "description": "Returns the JSON Web Key Set used to verify JWTs.",
                "produces": ["application/json"],
                "tags": ["well-known"],
                "summary": "Get JWKS",
                "responses": {
                    "200": {"description": "The JSON Web Key Set", "schema": {"$ref": "#/definitions/authsdk.JWKSResponse"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning uptime and version. Always 200 while the process serves requests.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe returning uptime, version and the state of the database and the signing keys",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "authsdk.FieldError": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "authsdk.GateErrorResponse": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "status": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "path": {"type": "string"}
            }
        },
        "authsdk.SignUpRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Olena"},
                "email": {"type": "string", "example": "olena@example.com"},
                "password": {"type": "string", "example": "Secret123!"},
                "isUbs": {"type": "boolean"}
            }
        },
        "authsdk.SuccessSignUp": {
            "type": "object",
            "properties": {
                "userId": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "ownRegistrations": {"type": "boolean"}
            }
        },
        "authsdk.SignInRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "olena@example.com"},
                "password": {"type": "string", "example": "Secret123!"}
            }
        },
        "authsdk.SuccessSignIn": {
            "type": "object",
            "properties": {
                "userId": {"type": "integer"},
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "name": {"type": "string"},
                "ownRegistrations": {"type": "boolean"}
            }
        },
        "authsdk.TokenPair": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "authsdk.RestorePasswordRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "authsdk.UpdatePasswordRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "authsdk.ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "currentPassword": {"type": "string"},
                "newPassword": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "authsdk.PasswordStatus": {
            "type": "object",
            "properties": {
                "hasPassword": {"type": "boolean"}
            }
        },
        "authsdk.EmployeeSignUpRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "uuid": {"type": "string"},
                "isUbs": {"type": "boolean"}
            }
        },
        "authsdk.RegisterUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "example": "USER"},
                "userStatus": {"type": "string", "example": "ACTIVATED"}
            }
        },
        "authsdk.UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "uuid": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "userStatus": {"type": "string"},
                "languageCode": {"type": "string"},
                "dateOfRegistration": {"type": "string"},
                "lastActivityTime": {"type": "string"}
            }
        },
        "authsdk.UserStatusRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "userStatus": {"type": "string", "example": "BLOCKED"}
            }
        },
        "authsdk.UserStatusResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "userStatus": {"type": "string"}
            }
        },
        "authsdk.UserRoleRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "example": "MODERATOR"}
            }
        },
        "authsdk.UserRoleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "role": {"type": "string"}
            }
        },
        "authsdk.RolesResponse": {
            "type": "object",
            "properties": {
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "signer": {"type": "string"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"}
            }
        },
        "authsdk.JWKSResponse": {
            "type": "object",
            "properties": {
                "keys": {"type": "array", "items": {"type": "object"}}
            }
        },
        "authsdk.RotateKeyRequest": {
            "type": "object",
            "properties": {
                "retire_existing": {"type": "boolean"}
            }
        },
        "authsdk.SigningKeyInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "kid": {"type": "string"},
                "algorithm": {"type": "string"},
                "created_at": {"type": "string"},
                "retired_at": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "authsdk.RotateKeyResponse": {
            "type": "object",
            "properties": {
                "new_key": {"$ref": "#/definitions/authsdk.SigningKeyInfo"},
                "retired_keys": {"type": "array", "items": {"$ref": "#/definitions/authsdk.SigningKeyInfo"}},
                "active_keys": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "GreenCity User Service API",
	Description:      "Own-credential sign up and sign in, single-use refresh tokens and role gated account administration.\n\nAccess tokens are signed with the keys published at /.well-known/jwks.json.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
