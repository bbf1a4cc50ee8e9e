package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/valyala/fasthttp"

	"credit-engine/internal/config"
	"credit-engine/internal/handler"
	"credit-engine/internal/logging"
	"credit-engine/internal/ratesource"
	"credit-engine/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info").Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logging.New("info").Fatal().Err(err).Msg("invalid config")
	}

	logger := logging.New(cfg.Log.Level)

	var st store.Store = store.NewNoopStore()
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Database.SQLitePath).Msg("create data directory")
		}
		sqlite, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Database.SQLitePath).Msg("open run store")
		}
		defer sqlite.Close()
		st = sqlite
		logger.Info().Str("path", cfg.Database.SQLitePath).Msg("sqlite store opened")
	} else {
		logger.Info().Msg("no database path configured, runs are not recorded")
	}

	rates := ratesource.NewClient(cfg.ReferenceRates.BaseURL,
		ratesource.WithLogger(logger),
		ratesource.WithRateLimit(cfg.ReferenceRates.RateLimit),
	)

	srv := &fasthttp.Server{
		Handler:            handler.New(st, rates, logger).Handle,
		Name:               "credit-engine",
		MaxRequestBodySize: cfg.Server.MaxBodySize,
	}

	logger.Info().Str("port", cfg.Server.Port).Msg("credit engine starting")
	if err := srv.ListenAndServe(":" + cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
