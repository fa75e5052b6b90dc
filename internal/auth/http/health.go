package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/greencity/pkg/authsdk"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
)

// readyTimeout bounds the database ping of a readiness probe.
const readyTimeout = 2 * time.Second

// Pinger is the part of the store readiness needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SignerState reports whether tokens can be issued and verified.
type SignerState interface {
	IsReady() bool
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process serves requests.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	503 while the database is unreachable or no signing key is loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"same shape, status degraded"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger, keys SignerState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := authsdk.HealthChecks{Database: "ok", Signer: "ok"}
		if err := db.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
		}
		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
		}

		resp := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  &checks,
		}
		code := http.StatusOK
		if checks.Database != "ok" || checks.Signer != "ok" {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, resp)
	}
}
