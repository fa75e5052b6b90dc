package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/store"
)

// HousekeepingService periodically removes lapsed verification links,
// restore links and signing keys.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults interval to one hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each deletion is independent of the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	verify, err := s.Store.VerifyEmails().DeleteExpiredVerifyEmails(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired verify emails", "error", err)
	}

	restore, err := s.Store.RestorePasswordEmails().DeleteExpiredRestorePasswordEmails(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired restore links", "error", err)
	}

	if err := s.Store.SigningKeys().DeleteExpiredSigningKeys(ctx); err != nil {
		s.Logger.Error("failed to delete expired signing keys", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"verify_emails", verify,
		"restore_links", restore,
	)
}
