package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"bank_ledger/internal/api"
	"bank_ledger/internal/config"
	"bank_ledger/internal/domain"
	"bank_ledger/internal/processor"
	"bank_ledger/internal/repl"
	"bank_ledger/internal/repository/memory"
	"bank_ledger/internal/service"
	"bank_ledger/pkg/crypto"
	"bank_ledger/pkg/metrics"
)

const (
	appName = "bank_ledger"
)

func main() {
	logger := setupLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting application",
		slog.String("name", appName))

	metricsCollector := metrics.NewMetricsCollector(logger)
	signer := crypto.NewSigner(cfg.Ledger.StatementSecret, logger)
	auditTrail := service.NewAuditTrail(cfg.Audit.Workers, logger)
	collection := memory.NewAccountCollection()
	proc := processor.NewOperationProcessor(collection, auditTrail, logger)

	if cfg.Ledger.SeedDemoAccounts {
		seedAccounts(proc, logger)
	}
	metricsCollector.SetAccountsHeld(collection.Len(context.Background()))

	apiHandler := api.NewAPIHandler(proc, metricsCollector, signer, logger)
	metricsServer := metricsCollector.StartMetricsServer(cfg.Server.MetricsAddr)
	httpServer := startHTTPServer(cfg.Server, apiHandler, logger)

	runREPL(proc, logger)

	shutdown(cfg.Server, logger, httpServer, metricsServer, auditTrail, metricsCollector)
	logger.Info("Application shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// seedAccounts installs the demo customers in the order the original system
// opens them, so traversal shows the most recently opened customer first.
func seedAccounts(proc *processor.OperationProcessor, logger *slog.Logger) {
	ctx := context.Background()
	seeds := []struct {
		kind    domain.Kind
		owner   string
		balance string
		extra   string
	}{
		{domain.KindSavings, "Laurie", "5000", "2.5"},
		{domain.KindChecking, "Larry", "1000", "500"},
		{domain.KindSavings, "David", "10000", "2.5"},
		{domain.KindChecking, "Luis", "2000", "500"},
	}

	for _, s := range seeds {
		_, err := proc.OpenAccount(ctx, s.kind, s.owner,
			decimal.RequireFromString(s.balance), decimal.RequireFromString(s.extra))
		if err != nil {
			logger.Error("Seeding account failed",
				slog.String("owner", s.owner),
				slog.String("error", err.Error()))
		}
	}
}

func startHTTPServer(cfg config.ServerConfig, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

// runREPL drives the interactive menu in the foreground until the user exits
// or the process receives SIGINT/SIGTERM.
func runREPL(proc *processor.OperationProcessor, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		<-stop
		logger.Info("Shutdown signal received")
		cancel()
	}()

	loop := repl.NewLoop(proc, os.Stdin, os.Stdout, logger)
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("REPL failed", slog.String("error", err.Error()))
	}
}

func shutdown(
	cfg config.ServerConfig,
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	auditTrail *service.AuditTrail,
	metricsCollector *metrics.MetricsCollector,
) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := auditTrail.Shutdown(ctx); err != nil {
		logger.Error("Audit trail shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsCollector.Shutdown(ctx); err != nil {
		logger.Error("Metrics collector shutdown failed", slog.String("error", err.Error()))
	}
}
