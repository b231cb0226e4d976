package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"sports-cms/internal/config"
	"sports-cms/internal/handler/graphql"
	hhttp "sports-cms/internal/handler/http"
	"sports-cms/internal/handler/http/middleware"
	"sports-cms/internal/handler/http/requestid"
	pgRepo "sports-cms/internal/infra/adapter/persistence/postgres"
	sqliteRepo "sports-cms/internal/infra/adapter/persistence/sqlite"
	"sports-cms/internal/infra/db"
	"sports-cms/internal/observability/tracing"
	"sports-cms/internal/repository"
	"sports-cms/internal/resilience/circuitbreaker"
	artUC "sports-cms/internal/usecase/article"
)

// newServer wires storage, the article service and the GraphQL schema into
// the routed and instrumented HTTP handler.
func newServer(logger *slog.Logger, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	breaker := circuitbreaker.NewDBCircuitBreaker(database)

	var repo repository.ArticleRepository
	switch cfg.Database.Driver {
	case db.DriverPostgres:
		repo = pgRepo.NewArticleRepo(breaker)
	case db.DriverSQLite:
		repo = sqliteRepo.NewArticleRepo(breaker)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	svc := artUC.NewService(repo, cfg.Paging())
	schema := graphql.NewSchema(svc, cfg.GraphQL.MaxDepth)

	limiter := middleware.NewIPRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		Logger:            logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/graphql", limiter.Middleware(graphql.NewHandler(schema, logger)))
	mux.Handle("/health", &hhttp.HealthHandler{
		DB:      database,
		Driver:  cfg.Database.Driver,
		Version: cfg.Version,
		Breaker: breaker,
	})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	corsConfig, err := middleware.NewCORSConfig(cfg.CORS.AllowedOrigins, logger)
	if err != nil {
		return nil, fmt.Errorf("cors: %w", err)
	}
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", cfg.CORS.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods))

	// Outermost first: CORS answers preflights before anything else runs.
	return hhttp.Chain(mux,
		middleware.CORS(corsConfig),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.InputValidation(cfg.Server.MaxBodyBytes),
		hhttp.Timeout(cfg.Server.RequestTimeout),
	), nil
}
