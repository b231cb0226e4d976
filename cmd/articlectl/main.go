// Command articlectl is an interactive terminal client for the sports article API.
// Usage: articlectl [-endpoint http://localhost:4000/graphql] [-page-size 10]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sports-cms/internal/infra/gqlclient"
	"sports-cms/internal/observability/logging"
	"sports-cms/internal/usecase/listsync"
	envconfig "sports-cms/pkg/config"
)

func main() {
	var (
		endpoint string
		pageSize int
		timeout  time.Duration
		verbose  bool
	)
	flag.StringVar(&endpoint, "endpoint",
		envconfig.GetEnvString("ARTICLES_API_URL", "http://localhost:4000/graphql"),
		"GraphQL endpoint of the article API")
	flag.IntVar(&pageSize, "page-size", listsync.DefaultPageSize, "Articles per page")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.BoolVar(&verbose, "v", false, "Log client activity to stderr")
	flag.Parse()

	logger := logging.NewTextLogger(os.Stderr)
	if !verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	slog.SetDefault(logger)

	cfg := gqlclient.DefaultConfig(endpoint)
	cfg.Timeout = timeout
	client := gqlclient.New(cfg, logger)

	session := listsync.NewSession(client, pageSize, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = listsync.WithSession(ctx, session)

	fmt.Printf("connected to %s, type help for commands\n", endpoint)
	sh := newShell(client, listsync.FromContext(ctx), os.Stdin, os.Stdout)
	if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
