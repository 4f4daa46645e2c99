package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pitchside/pitchside/external/espn"
	"github.com/pitchside/pitchside/internal/config"
	"github.com/pitchside/pitchside/internal/infrastructure/repository/postgres"
	"github.com/pitchside/pitchside/internal/interfaces/httpapi"
	"github.com/pitchside/pitchside/internal/platform/cache"
	"github.com/pitchside/pitchside/internal/platform/logging"
	"github.com/pitchside/pitchside/internal/platform/resilience"
	"github.com/pitchside/pitchside/internal/usecase"
)

// App wires the database, the feed client, the services, and the HTTP
// surface. The caller owns the lifecycle: start Sync once, serve Server,
// Close on shutdown.
type App struct {
	Server *http.Server
	Sync   *usecase.SyncService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	leagueRepo := postgres.NewLeagueRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	appearanceRepo := postgres.NewAppearanceRepository(db)
	oddsRepo := postgres.NewOddsRepository(db)
	teamStatsRepo := postgres.NewTeamStatsRepository(db)
	playerStatsRepo := postgres.NewPlayerStatsRepository(db)
	runRepo := postgres.NewIngestRunRepository(db)

	feed := espn.NewClient(espn.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FeedTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:    cfg.FeedBaseURL,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	extractor := usecase.NewExtractorService(
		leagueRepo,
		teamRepo,
		playerRepo,
		matchRepo,
		appearanceRepo,
		oddsRepo,
		teamStatsRepo,
		playerStatsRepo,
		logger,
	)
	syncSvc := usecase.NewSyncService(feed, extractor, matchRepo, runRepo, usecase.SyncConfig{
		BackfillMaxDays: cfg.SyncBackfillMaxDays,
		ForwardDays:     cfg.SyncForwardDays,
		RequestDelay:    cfg.SyncRequestDelay,
	}, logger)
	resyncSvc := usecase.NewResyncService(feed, extractor, runRepo, logger)

	var queryCache *cache.Store
	if cfg.CacheEnabled {
		queryCache = cache.NewStore(cfg.CacheTTL)
	}

	standingsSvc := usecase.NewStandingsService(matchRepo, teamRepo, queryCache)
	formSvc := usecase.NewFormService(matchRepo, teamRepo, teamStatsRepo)
	ratingSvc := usecase.NewRatingService(playerRepo, playerStatsRepo, appearanceRepo)
	matchQuerySvc := usecase.NewMatchQueryService(matchRepo, teamRepo, oddsRepo, teamStatsRepo, playerStatsRepo)

	handler := httpapi.NewHandler(standingsSvc, formSvc, ratingSvc, matchQuerySvc, syncSvc, resyncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server: server,
		Sync:   syncSvc,
		db:     db,
	}, nil
}

// Close releases the database pool. Safe to call after the HTTP server has
// already shut down.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
