package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error names sent by the service in ErrorResponse.Name.
const (
	ErrorNameWrongEmail          = "WrongEmail"
	ErrorNameWrongPassword       = "WrongPassword"
	ErrorNameEmailNotVerified    = "EmailNotVerified"
	ErrorNameBadUserStatus       = "BadUserStatus"
	ErrorNameBadRefreshToken     = "BadRefreshToken"
	ErrorNameAlreadyRegistered   = "AlreadyRegistered"
	ErrorNameAlreadyHasPassword  = "AlreadyHasPassword"
	ErrorNamePasswordsDoNotMatch = "PasswordsDoNotMatch"
	ErrorNameBadRequest          = "BadRequest"
	ErrorNameLowRoleLevel        = "LowRoleLevel"
	ErrorNameBadUpdateRequest    = "BadUpdateRequest"
	ErrorNameNotFound            = "NotFound"
)

// APIError is any non-success answer from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Name is the domain error kind, empty for gate and transport errors
	Name string

	// Message is the server supplied description
	Message string

	// Fields holds per-field validation failures
	Fields []FieldError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case len(e.Fields) > 0:
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.Name + ": " + f.Message
		}
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, strings.Join(parts, "; "))
	case e.Name != "":
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Name, e.Message)
	default:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
}

// IsName reports whether err is an APIError carrying the given name.
func IsName(err error, name string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Name == name
}

// StatusCode returns the HTTP status of err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseErrorResponse turns a failed response into an *APIError. It
// understands the domain body, the validation array and the gate body.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var fields []FieldError
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		apiErr.Fields = fields
		apiErr.Message = "validation failed"
		return apiErr
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		apiErr.Name = errResp.Name
		apiErr.Message = errResp.Message
		return apiErr
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
