// Command server runs the table engine's TCP listener and serves
// Prometheus metrics on :9090.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shardtable/shardtable/config"
	"github.com/shardtable/shardtable/engine"
	pmet "github.com/shardtable/shardtable/metrics/prom"
	"github.com/shardtable/shardtable/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading configuration")
	}

	metrics := pmet.New(nil, "shardtable", "engine", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info().Str("addr", ":9090").Msg("serving metrics")
		if err := http.ListenAndServe(":9090", nil); err != nil {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	db := engine.New(engine.Options{
		MemoryLimitBytes: cfg.MemoryLimit,
		DataDir:          cfg.DataPath,
		Metrics:          metrics,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(db, logger)
	if err := srv.ListenAndServe(ctx, cfg.BindURL); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("listener failed")
		os.Exit(1)
	}
}
