package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
	"github.com/aussiebroadwan/greencity/pkg/slogx"

	validation "github.com/go-ozzo/ozzo-validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// statusForKind maps domain error kinds to HTTP status codes. Kinds not
// listed are client errors (400).
var statusForKind = map[service.Kind]int{
	service.KindBadRefreshToken:   http.StatusUnauthorized,
	service.KindAlreadyRegistered: http.StatusConflict,
	service.KindLowRoleLevel:      http.StatusForbidden,
	service.KindNotFound:          http.StatusNotFound,
}

// writeServiceError translates a service error into a response. Unknown
// errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceErrorWith(w, r, err, nil)
}

// writeServiceErrorWith is writeServiceError with per-route status
// overrides, e.g. WrongEmail answers 404 on restorePassword.
func writeServiceErrorWith(w http.ResponseWriter, r *http.Request, err error, overrides map[service.Kind]int) {
	de, ok := service.AsError(err)
	if !ok {
		slogx.FromContext(r.Context()).Error("request failed", "err", err, "path", r.URL.Path)
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
			Name:    "InternalError",
			Message: "Internal server error",
		})
		return
	}

	code, found := overrides[de.Kind]
	if !found {
		code, found = statusForKind[de.Kind]
	}
	if !found {
		code = http.StatusBadRequest
	}

	slogx.FromContext(r.Context()).Debug("request rejected", "kind", de.Kind, "status", code)
	httpx.WriteJSON(w, code, authsdk.ErrorResponse{Name: string(de.Kind), Message: de.Message})
}

// writeFieldErrors answers 400 with one entry per invalid field.
func writeFieldErrors(w http.ResponseWriter, fields []authsdk.FieldError) {
	httpx.WriteJSON(w, http.StatusBadRequest, fields)
}

// writeValidationError renders an ozzo validation result. Field names come
// from the json tags, so they match what the client sent.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		writeServiceError(w, r, err)
		return
	}

	names := make([]string, 0, len(verrs))
	for name := range verrs {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]authsdk.FieldError, 0, len(names))
	for _, name := range names {
		fields = append(fields, authsdk.FieldError{Name: name, Message: verrs[name].Error()})
	}
	writeFieldErrors(w, fields)
}

type validatable interface {
	Validate() error
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the 400 itself and reports false when the request must stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	if !decodeBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		writeValidationError(w, r, err)
		return false
	}
	return true
}

// decodeBody reads a JSON body into dst, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFieldErrors(w, []authsdk.FieldError{{Name: "body", Message: "malformed JSON body"}})
		return false
	}
	return true
}

// queryInt64 parses a required integer query parameter.
func queryInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeFieldErrors(w, []authsdk.FieldError{{Name: name, Message: "cannot be blank"}})
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		writeFieldErrors(w, []authsdk.FieldError{{Name: name, Message: "must be a positive integer"}})
		return 0, false
	}
	return n, true
}

// queryRequired reads a required string query parameter.
func queryRequired(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeFieldErrors(w, []authsdk.FieldError{{Name: name, Message: "cannot be blank"}})
		return "", false
	}
	return v, true
}

// principal returns the authenticated caller. The policy guarantees one on
// every route that calls it; a missing principal is answered with 401.
func principal(w http.ResponseWriter, r *http.Request) (httpx.Principal, bool) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, httpx.MsgUnauthorized)
	}
	return p, ok
}
