package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/auth"
	"github.com/devxxclaire/MyFinanceHub/internal/cli"
	apphttp "github.com/devxxclaire/MyFinanceHub/internal/http"
	"github.com/devxxclaire/MyFinanceHub/internal/journal"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
	"github.com/devxxclaire/MyFinanceHub/internal/notify"
	"github.com/devxxclaire/MyFinanceHub/internal/services"
	"github.com/devxxclaire/MyFinanceHub/internal/session"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.ComponentApp, slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(log.ComponentApp, cfg.Level())

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	taxonomy := cfg.Taxonomy()
	authSvc := auth.NewService(store, logger.WithComponent(log.ComponentAuth))
	ledger := services.NewLedgerService(store, taxonomy, logger.WithComponent(log.ComponentLedger))
	insights := services.NewInsightsService(store, logger.WithComponent(log.ComponentInsights))
	logins := journal.New(store, logger.WithComponent(log.ComponentJournal))

	sessions := session.NewManager(cfg.SessionLimit, cfg.SessionTTL)
	defer sessions.Close()

	// Summary delivery is optional: without a queue the endpoint answers 503
	// and everything else keeps working.
	var publisher apphttp.SummaryPublisher
	amqpClient, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		logger.WithComponent(log.ComponentAMQP))
	if err != nil {
		logger.Warn("AMQP unavailable, summary emails disabled", log.FieldError, err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	srv := apphttp.NewServer(
		apphttp.Options{
			Addr:               ":" + cfg.Port,
			LoginRatePerMinute: cfg.LoginRatePerMinute,
			TrustProxyHeaders:  cfg.TrustProxyHeaders,
		},
		authSvc, ledger, insights, logins, sessions,
		publisher, store, store,
		logger.WithComponent(log.ComponentHTTP),
	)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting financehub server",
		"port", cfg.Port, log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
