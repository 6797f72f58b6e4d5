package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/prediction-league/external/sportmonks"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/baseline"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/standings"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	cacherepo "github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	platformcache "github.com/riskibarqy/prediction-league/internal/platform/cache"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type repositories struct {
	seasons     season.Repository
	teams       team.Repository
	predictions prediction.Repository
	standings   standings.Repository
	baselines   baseline.Repository
	raw         rawdata.Repository
}

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned cleanup closes the database pool and must run after the server
// has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		store := platformcache.NewStore(cfg.CacheTTL)
		repos.seasons = cacherepo.NewSeasonRepository(repos.seasons, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	}

	var feed usecase.StandingsFeed
	if cfg.SportMonksEnabled {
		client := sportmonks.NewClient(sportmonks.ClientConfig{
			BaseURL:    cfg.SportMonksBaseURL,
			Token:      cfg.SportMonksToken,
			Timeout:    cfg.SportMonksTimeout,
			MaxRetries: cfg.SportMonksMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SportMonksCircuitEnabled,
				FailureThreshold: cfg.SportMonksCircuitFailureCount,
				OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
			},
		})
		feed = sportmonks.NewFeed(sportmonks.FeedConfig{
			Client:      client,
			Teams:       repos.teams,
			RawRepo:     repos.raw,
			SeasonIDMap: cfg.SportMonksSeasonIDMap,
			Logger:      logger,
		})
	} else {
		logger.InfoContext(ctx, "standings feed disabled, resync will report unavailable")
	}

	roundProvider := usecase.NewStandingsRoundProvider(repos.standings)
	predictionSvc := usecase.NewPredictionService(
		repos.predictions,
		repos.seasons,
		repos.teams,
		roundProvider,
		idgen.NewUUIDGenerator(),
		logger,
	)
	resolverSvc := usecase.NewRankingResolverService(repos.predictions, repos.standings, repos.baselines)
	seasonSvc := usecase.NewSeasonService(repos.seasons, repos.teams)
	standingsSvc := usecase.NewStandingsService(repos.seasons, repos.standings, repos.baselines, repos.raw, feed, logger)
	resyncSvc := usecase.NewResyncService(standingsSvc, repos.seasons, logger)

	handler := httpapi.NewHandler(predictionSvc, resolverSvc, seasonSvc, standingsSvc, resyncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if !cfg.DBEnabled {
		logger.InfoContext(ctx, "database disabled, using seeded in-memory repositories")
		repos := repositories{
			seasons:     memory.NewSeasonRepository(memory.SeedSeasons()),
			teams:       memory.NewTeamRepository(memory.SeedTeams()),
			predictions: memory.NewPredictionRepository(),
			standings:   memory.NewStandingsRepository(),
			baselines:   memory.NewBaselineRepository(memory.SeedBaselines()),
			raw:         memory.NewRawDataRepository(),
		}
		return repos, func() error { return nil }, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.InfoContext(ctx, "database connected", "db_name", dbNameFromURL(cfg.DBURL))

	repos := repositories{
		seasons:     postgres.NewSeasonRepository(db),
		teams:       postgres.NewTeamRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		standings:   postgres.NewStandingsRepository(db),
		baselines:   postgres.NewBaselineRepository(db),
		raw:         postgres.NewRawDataRepository(db),
	}
	return repos, db.Close, nil
}
