// Command auth runs the GreenCity user service: sign-up, sign-in, token
// refresh and user management over HTTP.
package main

import (
	"log/slog"
	"os"

	"github.com/aussiebroadwan/greencity/internal/auth/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize user service", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("user service stopped with error", "error", err)
		os.Exit(1)
	}
}
