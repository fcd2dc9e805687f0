package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/josh-kwaku/treasury-ledger/internal/config"
	"github.com/josh-kwaku/treasury-ledger/internal/fx"
	"github.com/josh-kwaku/treasury-ledger/internal/handler"
	"github.com/josh-kwaku/treasury-ledger/internal/idgen"
	"github.com/josh-kwaku/treasury-ledger/internal/ledger"
	"github.com/josh-kwaku/treasury-ledger/internal/logging"
	"github.com/josh-kwaku/treasury-ledger/internal/metrics"
	"github.com/josh-kwaku/treasury-ledger/internal/middleware"
	"github.com/josh-kwaku/treasury-ledger/internal/seed"
	"github.com/josh-kwaku/treasury-ledger/internal/service"
	"github.com/josh-kwaku/treasury-ledger/internal/service/transfer"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("treasury-api", cfg.LogLevel, cfg.AppEnv)

	app, err := newApp(cfg)
	if err != nil {
		slog.Error("failed to initialise ledger", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout + cfg.TransferDelay,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "transfer_delay", cfg.TransferDelay.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newApp loads the seed, builds the ledger and returns the routed handler.
func newApp(cfg *config.Config) (http.Handler, error) {
	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("newApp: %w", err)
	}

	rates, err := fx.NewRateService(data.Rates)
	if err != nil {
		return nil, fmt.Errorf("newApp: %w", err)
	}

	store, err := ledger.NewStore(data.Accounts, data.Transactions)
	if err != nil {
		return nil, fmt.Errorf("newApp: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	transfers := transfer.NewService(store, rates, idgen.NewULID(idgen.TransactionPrefix),
		transfer.WithMetrics(metrics.NewTransfers(reg)))
	accounts := service.NewAccountService(store, nil)

	slog.Info("ledger loaded",
		"accounts", len(data.Accounts),
		"transactions", len(data.Transactions),
		"currencies", len(data.Rates),
	)

	mux := http.NewServeMux()
	routes(mux, routeDeps{
		health:    handler.NewHealthHandler(version, time.Now()),
		accounts:  handler.NewAccountHandler(accounts),
		transfers: handler.NewTransferHandler(transfers, cfg.TransferDelay),
		fx:        handler.NewFXHandler(rates),
		metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	return middleware.Chain(mux, middleware.Tracing, middleware.Logging, middleware.Recovery), nil
}

type routeDeps struct {
	health    *handler.HealthHandler
	accounts  *handler.AccountHandler
	transfers *handler.TransferHandler
	fx        *handler.FXHandler
	metrics   http.Handler
}

func routes(mux *http.ServeMux, d routeDeps) {
	mux.HandleFunc("GET /health", d.health.Liveness)
	mux.Handle("GET /metrics", d.metrics)

	mux.HandleFunc("GET /api/v1/accounts", d.accounts.List)
	mux.HandleFunc("GET /api/v1/accounts/{id}", d.accounts.Get)
	mux.HandleFunc("GET /api/v1/summary", d.accounts.Summary)

	mux.HandleFunc("GET /api/v1/transactions", d.transfers.List)
	mux.HandleFunc("POST /api/v1/transfers", d.transfers.Create)

	mux.HandleFunc("GET /api/v1/fx/rate", d.fx.GetRate)
	mux.HandleFunc("GET /api/v1/fx/currencies", d.fx.Currencies)
}
