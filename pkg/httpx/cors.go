package httpx

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

// CORSConfig lists what cross origin callers may do.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORS mirrors the web client setup: the two local frontends, the
// usual REST verbs, credentials and a one hour preflight cache.
func DefaultCORS(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions, http.MethodDelete, http.MethodPut, http.MethodPatch},
		AllowedHeaders: []string{
			"Authorization", "Content-Type", "Accept", "Accept-Language",
			"Origin", "X-Requested-With", "X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
}

// CORSMiddleware answers preflight requests and decorates requests from
// allowed origins.
func CORSMiddleware(cfg CORSConfig) Middleware {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge.Seconds()),
	}).Handler
}
