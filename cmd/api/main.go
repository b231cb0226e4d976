// Command api serves the sports article GraphQL API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sports-cms/internal/config"
	"sports-cms/internal/infra/db"
	"sports-cms/internal/observability/logging"
	"sports-cms/internal/observability/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

// run opens and migrates the database, then serves until ctx is canceled
// and in-flight requests have drained.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	shutdownTracing := tracing.Init("sports-cms-api")
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	database, err := db.Open(openCtx, cfg.DB())
	if err == nil {
		err = db.MigrateUp(openCtx, database, cfg.Database.Driver)
	}
	cancel()
	if err != nil {
		if database != nil {
			_ = database.Close()
		}
		return fmt.Errorf("prepare database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler, err := newServer(logger, cfg, database)
	if err != nil {
		return fmt.Errorf("set up server: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serve(ctx, logger, cfg, ln, handler)
}

// serve runs an http.Server on ln until ctx is done, then shuts it down
// within cfg.Server.ShutdownTimeout.
func serve(ctx context.Context, logger *slog.Logger, cfg *config.Config, ln net.Listener, handler http.Handler) error {
	// requests keep their values but outlive ctx so Shutdown can drain them
	base := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", cfg.Version),
			slog.String("db_driver", cfg.Database.Driver))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	logger.Info("server stopped")
	return err
}
