// Command seed loads sports articles from a CSV file into the database.
// Usage: seed -file articles.csv [-reset] [-batch 100] [-parallel 4]
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sports-cms/internal/config"
	pgRepo "sports-cms/internal/infra/adapter/persistence/postgres"
	sqliteRepo "sports-cms/internal/infra/adapter/persistence/sqlite"
	"sports-cms/internal/infra/db"
	"sports-cms/internal/observability/logging"
	"sports-cms/internal/repository"
	"sports-cms/internal/seed"
)

func main() {
	var (
		file     string
		reset    bool
		batch    int
		parallel int
	)
	flag.StringVar(&file, "file", "data/sports_articles.csv", "CSV file with id,title,content,createdAt,imageUrl columns")
	flag.BoolVar(&reset, "reset", false, "Delete every existing article before loading; required when rerunning a file whose rows carry ids")
	flag.IntVar(&batch, "batch", seed.DefaultBatchSize, "Rows per insert statement")
	flag.IntVar(&parallel, "parallel", 4, "Concurrent insert statements (forced to 1 for sqlite)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, file, reset, batch, parallel); err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, file string, reset bool, batch, parallel int) error {
	f, err := os.Open(file) // #nosec G304 -- path is an operator-supplied flag
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	articles, stats, err := seed.Parser{}.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	logger.Info("parsed seed file",
		slog.String("file", file),
		slog.Int("rows", stats.Rows),
		slog.Int("skipped", stats.Skipped),
		slog.Int("invalid", stats.Invalid),
		slog.Int("duplicate_ids", stats.Duplicates),
		slog.Int("articles", len(articles)))

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	database, err := db.Open(openCtx, cfg.DB())
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()
	if err := db.MigrateUp(openCtx, database, cfg.Database.Driver); err != nil {
		return err
	}

	store, err := newSeeder(cfg.Database.Driver, database)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == db.DriverSQLite {
		parallel = 1
	}

	loader := &seed.Loader{Store: store, BatchSize: batch, Parallelism: parallel, Logger: logger}
	if reset {
		if err := loader.Reset(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	n, err := loader.Load(ctx, articles)
	if err != nil {
		return err
	}
	logger.Info("seeding complete",
		slog.Int("inserted", n),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func newSeeder(driver string, database *sql.DB) (repository.ArticleSeeder, error) {
	switch driver {
	case db.DriverPostgres:
		return pgRepo.NewArticleRepo(database), nil
	case db.DriverSQLite:
		return sqliteRepo.NewArticleRepo(database), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
