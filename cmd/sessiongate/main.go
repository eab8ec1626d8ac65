package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fightlinkhq/fightlink/internal/app"
	"github.com/fightlinkhq/fightlink/internal/config"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	store, _, err := app.NewSessionStore(cfg, logger)
	if err != nil {
		logger.Error("build session store", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Start(ctx); err != nil {
		logger.Error("start session store", "error", err)
		os.Exit(1)
	}

	unwatch := store.Watch(func(state session.State) {
		logger.Info("session state changed",
			"flow", string(state.Flow()),
			"authenticated", state.Authenticated,
			"onboarding_complete", state.HasCompletedOnboarding,
		)
	})
	defer unwatch()

	logger.Info("session gate running", "api", cfg.SessionAPIBaseURL)
	<-ctx.Done()

	store.Close()
	logger.Info("session gate stopped")
}
