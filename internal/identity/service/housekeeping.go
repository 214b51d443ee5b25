package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/metrics"
	"github.com/aussiebroadwan/identity/internal/identity/store"
)

// HousekeepingService periodically closes expired sessions and purges dead
// ledger rows so the tables do not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Retention keeps expired tokens and closed sessions around for audit
	// before they are deleted.
	Retention time.Duration

	// Clock defaults to time.Now.
	Clock func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention < 0 {
		retention = 0
	}

	return &HousekeepingService{
		Store:     s,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Result counts the rows touched by one cleanup pass.
type Result struct {
	ExpiredSessions int64
	DeletedSessions int64
	DeletedTokens   int64
}

// RunOnce performs a single cleanup pass. Each step is independent; a
// failure in one is logged and does not stop the others.
func (s *HousekeepingService) RunOnce(ctx context.Context) Result {
	start := time.Now()
	defer func() { metrics.HousekeepingDuration.Observe(time.Since(start).Seconds()) }()

	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock().UTC()
	}
	cutoff := now.Add(-s.Retention)

	var res Result
	var err error

	if res.ExpiredSessions, err = s.Store.Sessions().DeactivateExpiredSessions(ctx, now); err != nil {
		s.Logger.Error("failed to close expired sessions", "error", err)
	} else {
		metrics.HousekeepingRemovedTotal.WithLabelValues("expired_sessions").Add(float64(res.ExpiredSessions))
	}

	if res.DeletedSessions, err = s.Store.Sessions().DeleteInactiveSessionsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete inactive sessions", "error", err)
	} else {
		metrics.HousekeepingRemovedTotal.WithLabelValues("inactive_sessions").Add(float64(res.DeletedSessions))
	}

	if res.DeletedTokens, err = s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, cutoff); err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	} else {
		metrics.HousekeepingRemovedTotal.WithLabelValues("refresh_tokens").Add(float64(res.DeletedTokens))
	}

	s.Logger.Info("housekeeping cleanup completed",
		"expired_sessions", res.ExpiredSessions,
		"deleted_sessions", res.DeletedSessions,
		"deleted_tokens", res.DeletedTokens,
	)
	return res
}
