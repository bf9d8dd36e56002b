package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/matchbook-app/matchbook/internal/config"
	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
	"github.com/matchbook-app/matchbook/internal/domain/team"
	"github.com/matchbook-app/matchbook/internal/infrastructure/account/gatekeeper"
	"github.com/matchbook-app/matchbook/internal/infrastructure/notify"
	"github.com/matchbook-app/matchbook/internal/infrastructure/repository/memory"
	"github.com/matchbook-app/matchbook/internal/infrastructure/repository/postgres"
	"github.com/matchbook-app/matchbook/internal/interfaces/httpapi"
	idgen "github.com/matchbook-app/matchbook/internal/platform/id"
	"github.com/matchbook-app/matchbook/internal/platform/logging"
	"github.com/matchbook-app/matchbook/internal/platform/matchlock"
	"github.com/matchbook-app/matchbook/internal/platform/resilience"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type repositories struct {
	sports   sport.Repository
	clubs    club.Repository
	matches  match.Repository
	bookings booking.Repository
	teams    team.Repository
}

// NewHTTPServer wires repositories, services, and the HTTP surface. The
// returned cleanup must run on shutdown; it drains the event dispatcher and
// closes the database pool.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	locks := matchlock.NewMap()
	ids := idgen.NewRandomGenerator()

	catalogSvc := usecase.NewCatalogService(repos.sports)
	matchSvc := usecase.NewMatchService(repos.sports, repos.clubs, repos.matches, repos.bookings, ids)
	bookingSvc := usecase.NewBookingService(repos.sports, repos.matches, repos.clubs, repos.bookings, locks, ids)
	teamSvc := usecase.NewTeamService(repos.matches, repos.clubs, repos.bookings, repos.teams, locks, ids)

	var dispatcher *notify.Dispatcher
	if cfg.WebhookEnabled {
		publisher := notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			EndpointURL: cfg.WebhookEndpointURL,
			Secret:      cfg.WebhookSecret,
			Timeout:     cfg.WebhookTimeout,
			MaxRetries:  cfg.WebhookMaxRetries,
			Logger:      logging.Default(),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		})
		dispatcher, err = notify.NewDispatcher(publisher, cfg.WebhookWorkers, logging.Default())
		if err != nil {
			closeDB(db, logger)
			return nil, nil, fmt.Errorf("build event dispatcher: %w", err)
		}
		matchSvc.SetEventPublisher(dispatcher)
		bookingSvc.SetEventPublisher(dispatcher)
		teamSvc.SetEventPublisher(dispatcher)
	}

	verifier := gatekeeper.NewClient(gatekeeper.ClientConfig{
		BaseURL:        cfg.GatekeeperBaseURL,
		IntrospectPath: cfg.GatekeeperIntrospectPath,
		Timeout:        cfg.GatekeeperTimeout,
		CacheTTL:       cfg.GatekeeperCacheTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GatekeeperCircuitEnabled,
			FailureThreshold: cfg.GatekeeperCircuitFailureCount,
			OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(catalogSvc, matchSvc, bookingSvc, teamSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() {
		if dispatcher != nil {
			dispatcher.Close()
		}
		closeDB(db, logger)
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("db url is empty, using in-memory repositories with seed data")
		return repositories{
			sports:   memory.NewSportRepository(memory.SeedSports()),
			clubs:    memory.NewClubRepository(memory.SeedClubs()),
			matches:  memory.NewMatchRepository(memory.SeedMatches()),
			bookings: memory.NewBookingRepository(nil),
			teams:    memory.NewTeamRepository(),
		}, nil, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	if err := postgres.BootstrapSeed(context.Background(), db); err != nil {
		closeDB(db, logger)
		return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	return repositories{
		sports:   postgres.NewSportRepository(db),
		clubs:    postgres.NewClubRepository(db),
		matches:  postgres.NewMatchRepository(db),
		bookings: postgres.NewBookingRepository(db),
		teams:    postgres.NewTeamRepository(db),
	}, db, nil
}

func closeDB(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
