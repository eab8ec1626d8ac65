package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/fightlinkhq/fightlink/internal/config"
	"github.com/fightlinkhq/fightlink/internal/infrastructure/account/ringside"
	"github.com/fightlinkhq/fightlink/internal/infrastructure/repository/postgres"
	"github.com/fightlinkhq/fightlink/internal/interfaces/httpapi"
	"github.com/fightlinkhq/fightlink/internal/platform/cache"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/fightlinkhq/fightlink/internal/platform/resilience"
	"github.com/fightlinkhq/fightlink/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	profileRepo := postgres.NewProfileRepository(db)
	fanRepo := postgres.NewFanRepository(db)
	fighterRepo := postgres.NewFighterRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	organizerRepo := postgres.NewOrganizerRepository(db)

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
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

	authSvc := usecase.NewAuthService(ringsideClient, logger)
	onboardingSvc := usecase.NewOnboardingService(
		profileRepo,
		fanRepo,
		fighterRepo,
		contactRepo,
		organizerRepo,
		cacheStore,
		cfg.RecordWriteWorkers,
		logger,
	)
	profileSvc := usecase.NewProfileService(
		profileRepo,
		fanRepo,
		fighterRepo,
		contactRepo,
		organizerRepo,
		cacheStore,
		logger,
	)

	handler := httpapi.NewHandler(authSvc, onboardingSvc, profileSvc, logger)
	router := httpapi.NewRouter(handler, ringsideClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return db, nil
}
