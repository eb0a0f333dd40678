package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/devxxclaire/MyFinanceHub/internal/cli"
	"github.com/devxxclaire/MyFinanceHub/internal/log"
	"github.com/devxxclaire/MyFinanceHub/internal/notify"
	"github.com/devxxclaire/MyFinanceHub/internal/services"
	"github.com/devxxclaire/MyFinanceHub/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(log.ComponentWorker, slog.LevelInfo)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(log.ComponentWorker, cfg.Level())

	logger.Info("Starting financehub-worker", log.FieldOperation, log.OpStartup)

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	insights := services.NewInsightsService(store, logger.WithComponent(log.ComponentInsights))
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.SMTPFrom, logger.WithComponent(log.ComponentMail))

	summaryWorker, err := worker.NewSummaryWorker(insights, mailer, logger)
	if err != nil {
		logger.Error("Failed to initialize summary worker", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		logger.WithComponent(log.ComponentAMQP))
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeSummaryRequests(ctx, func(req *notify.SummaryRequest) error {
			return summaryWorker.HandleSummaryRequest(ctx, req)
		})
	}()

	select {
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}
