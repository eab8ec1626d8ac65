package app

import (
	"fmt"

	"github.com/fightlinkhq/fightlink/internal/config"
	"github.com/fightlinkhq/fightlink/internal/infrastructure/account/ringside"
	"github.com/fightlinkhq/fightlink/internal/infrastructure/profileapi"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/platform/resilience"
	"github.com/fightlinkhq/fightlink/internal/session"
)

// NewSessionStore assembles the device-side session holder: a ringside
// watcher feeding auth events and a profile API client answering
// onboarding-completion lookups.
func NewSessionStore(cfg config.Config, logger *logging.Logger) (*session.Store, *ringside.Watcher, error) {
	if cfg.SessionAPIBaseURL == "" {
		return nil, nil, fmt.Errorf("session api base url is required")
	}

	ringsideClient := ringside.NewClient(ringside.ClientConfig{
		BaseURL:        cfg.RingsideBaseURL,
		IntrospectPath: cfg.RingsideIntrospectPath,
		EventsPath:     cfg.RingsideEventsPath,
		APIKey:         cfg.RingsideAPIKey,
		Timeout:        cfg.RingsideTimeout,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RingsideCircuitEnabled,
			FailureThreshold: cfg.RingsideCircuitFailureCount,
			OpenTimeout:      cfg.RingsideCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RingsideCircuitHalfOpenMax,
		},
		PrincipalCacheTTL: cfg.CacheTTL,
	})

	watcher := ringside.NewWatcher(ringsideClient, logger, cfg.SessionPollInterval)
	if cfg.SessionToken != "" {
		watcher.SetToken(cfg.SessionToken)
	}

	completion := profileapi.NewClient(profileapi.Config{
		BaseURL: cfg.SessionAPIBaseURL,
		Tokens:  watcher,
		Timeout: cfg.RingsideTimeout,
		Logger:  logger,
	})

	store, err := session.NewStore(session.Config{
		Provider:   watcher,
		Completion: completion,
		FailClosed: cfg.SessionFailClosed,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build session store: %w", err)
	}

	return store, watcher, nil
}
