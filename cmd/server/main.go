package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("Configuration loaded", "env", cfg.Env, "port", cfg.Port, "history_window", cfg.HistoryWindow)
	if cfg.UsesDevSecret() {
		logger.Warn("Using built-in JWT secret, set JWT_SECRET outside development")
	}
	if cfg.HistoryWindow > 0 {
		logger.Warn("Group summaries and settlement plans ignore transactions older than the history window",
			"history_window", cfg.HistoryWindow)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("Failed to create data directory", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := newRouter(services{
		auth:   service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger),
		groups: service.NewGroupService(store, cfg.DefaultCurrency),
		ledger: service.NewLedgerService(store, service.LedgerConfig{
			DefaultMonthlyLimit: cfg.DefaultMonthlyLimit,
			HistoryWindow:       cfg.HistoryWindow,
		}),
		jwtManager: jwtManager,
		registry:   registry,
		logger:     logger,
	})

	// h2c serves HTTP/2 without TLS for Connect and gRPC clients.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
