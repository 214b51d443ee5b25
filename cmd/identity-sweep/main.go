// Command identity-sweep runs a single housekeeping pass against the
// identity database and exits. It is meant for cron or a Kubernetes CronJob
// when the in-process housekeeping loop is not wanted.
package main

import (
	"context"
	"log"

	"github.com/aussiebroadwan/identity/internal/identity/app"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg, "identity-sweep")

	db, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	hk := service.NewHousekeepingService(db, logger, cfg.HousekeepingInterval, cfg.HousekeepingRetention)
	res := hk.RunOnce(slogx.WithContext(ctx, logger))

	logger.Info("sweep finished",
		"expired_sessions", res.ExpiredSessions,
		"deleted_sessions", res.DeletedSessions,
		"deleted_tokens", res.DeletedTokens,
	)
}
