package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// WriteJSON writes v as JSON with status code and disables caching.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache marks the response as not storable. Token responses need it.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// ErrorBody is the envelope for gate level errors (401, 403, 429).
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// WriteError writes an ErrorBody for r.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	WriteJSON(w, code, ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   msg,
		Path:      r.URL.Path,
	})
}
