package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/gvfl/standings-api/external/fantasyapi"
	"github.com/gvfl/standings-api/external/whatsapp"
	"github.com/gvfl/standings-api/internal/config"
	"github.com/gvfl/standings-api/internal/domain/auditlog"
	"github.com/gvfl/standings-api/internal/domain/fantasylink"
	"github.com/gvfl/standings-api/internal/domain/participant"
	"github.com/gvfl/standings-api/internal/domain/score"
	"github.com/gvfl/standings-api/internal/domain/scoring"
	"github.com/gvfl/standings-api/internal/domain/season"
	"github.com/gvfl/standings-api/internal/domain/standings"
	"github.com/gvfl/standings-api/internal/infrastructure/repository/memory"
	"github.com/gvfl/standings-api/internal/infrastructure/repository/postgres"
	"github.com/gvfl/standings-api/internal/interfaces/httpapi"
	"github.com/gvfl/standings-api/internal/observability"
	"github.com/gvfl/standings-api/internal/platform/cache"
	idgen "github.com/gvfl/standings-api/internal/platform/id"
	"github.com/gvfl/standings-api/internal/platform/logging"
	"github.com/gvfl/standings-api/internal/platform/resilience"
	"github.com/gvfl/standings-api/internal/usecase"
)

const pprofShutdownTimeout = 5 * time.Second

// App wires configuration, storage, services, and the HTTP server together
// and owns their lifecycle.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	server   *http.Server
	pprofSrv *http.Server
	db       *sqlx.DB

	projector *usecase.ProjectorService
	poll      *usecase.PollService

	stopTracing   func(context.Context) error
	stopProfiling func() error
}

type repositories struct {
	participants participant.Repository
	standings    standings.Repository
	scores       score.Repository
	auditLog     auditlog.Repository
	seasons      season.Repository
	links        fantasylink.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(cfg.LogLevel)
	}

	stopTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start pprof: %w", err)
	}

	repos, db, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	table, err := scoring.ParseVersion(cfg.ScoringVersion)
	if err != nil {
		return nil, fmt.Errorf("parse scoring version: %w", err)
	}

	projector := usecase.NewProjectorService(repos.standings, repos.scores, table, logger).
		WithResyncWorkers(cfg.ResyncWorkers)
	identitySvc := usecase.NewIdentityService(repos.participants)
	standingsSvc := usecase.NewStandingsService(identitySvc, repos.standings, repos.auditLog, repos.seasons, projector, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.scores, repos.seasons, cache.NewStore(cfg.CacheTTL))
	seasonSvc := usecase.NewSeasonService(repos.seasons, repos.scores, repos.standings, repos.auditLog, repos.links, projector, logger)
	ingestionSvc := usecase.NewIngestionService(standingsSvc, logger)
	pollSvc := usecase.NewPollService(repos.links, buildFantasyClient(cfg, logger), ingestionSvc, buildNotifier(cfg, logger), logger)

	handler := httpapi.NewHandler(identitySvc, standingsSvc, leaderboardSvc, seasonSvc, ingestionSvc, projector, pollSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		cfg:           cfg,
		logger:        logger,
		server:        server,
		pprofSrv:      pprofSrv,
		db:            db,
		projector:     projector,
		poll:          pollSvc,
		stopTracing:   stopTracing,
		stopProfiling: stopProfiling,
	}, nil
}

// Run starts the HTTP server and the background jobs, blocking until ctx is
// cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	go a.runResyncLoop(ctx)
	if a.cfg.PollEnabled {
		go a.runPollLoop(ctx)
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}
}

// Shutdown stops the HTTP server and releases every resource the app owns.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := observability.StopPprofServer(a.pprofSrv, a.logger, pprofShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("shutdown pprof server: %w", err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	if err := a.stopProfiling(); err != nil {
		errs = append(errs, fmt.Errorf("stop profiler: %w", err))
	}
	if err := a.stopTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop tracing: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) runResyncLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := a.projector.Resync(ctx)
			if err != nil {
				a.logger.ErrorContext(ctx, "scheduled resync failed", "error", err.Error())
				continue
			}
			a.logger.InfoContext(ctx, "scheduled resync completed",
				"scopes", result.Scopes,
				"records_written", result.RecordsWritten,
				"records_deleted", result.RecordsDeleted,
				"drifted_records", result.DriftedRecords,
				"duration_ms", result.DurationMs,
			)
		}
	}
}

func (a *App) runPollLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := a.poll.Run(ctx)
			if err != nil {
				a.logger.ErrorContext(ctx, "scheduled fantasy poll failed", "error", err.Error())
				continue
			}
			a.logger.InfoContext(ctx, "scheduled fantasy poll completed", "checked", result.Checked)
		}
	}
}

func buildRepositories(cfg config.Config) (repositories, *sqlx.DB, error) {
	if cfg.StorageDriver == config.StoragePostgres {
		db, err := otelsqlx.Connect("postgres", cfg.DBURL,
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repositories{
			participants: postgres.NewParticipantRepository(db),
			standings:    postgres.NewStandingsRepository(db),
			scores:       postgres.NewScoreRepository(db),
			auditLog:     postgres.NewAuditLogRepository(db, idgen.NewRandomGenerator()),
			seasons:      postgres.NewSeasonRepository(db),
			links:        postgres.NewFantasyLinkRepository(db),
		}, db, nil
	}

	return repositories{
		participants: memory.NewParticipantRepository(),
		standings:    memory.NewStandingsRepository(),
		scores:       memory.NewScoreRepository(),
		auditLog:     memory.NewAuditLogRepository(idgen.NewRandomGenerator()),
		seasons:      memory.NewSeasonRepository(),
		links:        memory.NewFantasyLinkRepository(),
	}, nil, nil
}

func buildFantasyClient(cfg config.Config, logger *logging.Logger) usecase.FantasyClient {
	return fantasyapi.NewClient(fantasyapi.ClientConfig{
		BaseURL:    cfg.FantasyAPIBaseURL,
		Timeout:    cfg.FantasyAPITimeout,
		MaxRetries: cfg.FantasyAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FantasyAPICircuitEnabled,
			FailureThreshold: cfg.FantasyAPICircuitFailureCount,
			OpenTimeout:      cfg.FantasyAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FantasyAPICircuitHalfOpenMaxReq,
		},
	})
}

func buildNotifier(cfg config.Config, logger *logging.Logger) usecase.Notifier {
	if !cfg.WhatsAppEnabled {
		return usecase.NopNotifier{}
	}
	return whatsapp.NewClient(whatsapp.ClientConfig{
		BaseURL:    cfg.WhatsAppBaseURL,
		AuthToken:  cfg.WhatsAppAuthToken,
		ChatID:     cfg.WhatsAppChatID,
		Timeout:    cfg.WhatsAppTimeout,
		MaxRetries: cfg.WhatsAppMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WhatsAppCircuitEnabled,
			FailureThreshold: cfg.WhatsAppCircuitFailureCount,
			OpenTimeout:      cfg.WhatsAppCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WhatsAppCircuitHalfOpenMaxReq,
		},
	})
}
