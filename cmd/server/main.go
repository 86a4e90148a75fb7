// Package main runs the trade journal server: the ledger write path, the
// analytics read path, and the Prometheus /metrics endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tradejournal/internal/analytics"
	"tradejournal/internal/config"
	"tradejournal/internal/httpapi"
	"tradejournal/internal/ledger"
	"tradejournal/internal/observability"
	"tradejournal/internal/storage/migrations"
	pgstore "tradejournal/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	// Flags override env (env vars as defaults)
	dsn := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	schema := flag.String("db-schema", cfg.DBSchema, "schema set on the connection search_path")
	listenAddr := flag.String("listen-addr", cfg.ListenAddr, "HTTP listen address")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	migrate := flag.Bool("migrate", cfg.MigrateOnStart, "apply embedded migrations on start")
	flag.Parse()

	logger := newLogger(*logLevel)

	if *dsn == "" {
		logger.Fatal().Msg("--postgres-dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewPool(ctx, *dsn, *schema)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Str("schema", *schema).Msg("migrations applied")
	}

	metrics := observability.NewMetrics("")
	ledgerSvc := ledger.NewService(pgstore.NewLedgerStore(pool), logger, metrics)
	aggregator := analytics.NewAggregator(pgstore.NewAnalyticsStore(pool), logger, metrics)

	mux := httpapi.New(ledgerSvc, aggregator, logger).Routes()
	mux.Handle("GET /metrics", observability.Handler())

	server := &http.Server{
		Addr:              *listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", *listenAddr).Msg("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
