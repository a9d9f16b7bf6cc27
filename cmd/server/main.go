package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/powerpay/reportdesk/internal/api"
	"github.com/powerpay/reportdesk/internal/config"
	"github.com/powerpay/reportdesk/internal/handoff"
	"github.com/powerpay/reportdesk/internal/logging"
	"github.com/powerpay/reportdesk/internal/powerpay"
	"github.com/powerpay/reportdesk/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	channel, err := handoff.Open(cfg.Handoff.DBPath)
	if err != nil {
		logger.Fatal("failed to open hand-off channel",
			zap.Error(err),
			zap.String("dbPath", cfg.Handoff.DBPath))
	}
	defer channel.Close()

	client, err := powerpay.New(cfg.PowerPay.BaseURL, cfg.PowerPay.BearerToken)
	if err != nil {
		logger.Fatal("failed to initialize PowerPay client", zap.Error(err))
	}

	store := report.NewStore(client, channel, logger)
	store.Seed(report.SeedReports())
	if err := store.RestoreSession(); err != nil {
		logger.Warn("failed to restore previous session", zap.Error(err))
	}

	handler := api.NewHandler(store, client, channel, logger)
	mux := http.NewServeMux()
	handler.Register(mux)

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("web")))

	logger.Info("Starting server", zap.String("addr", cfg.Server.ListenAddr))
	if err := http.ListenAndServe(cfg.Server.ListenAddr, mux); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
