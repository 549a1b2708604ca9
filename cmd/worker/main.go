package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/adapters/worker"
	"github.com/kirillkom/ticket-analyzer/internal/bootstrap"
	"github.com/kirillkom/ticket-analyzer/internal/config"
	"github.com/kirillkom/ticket-analyzer/internal/core/usecase"
	"github.com/kirillkom/ticket-analyzer/internal/observability/logging"
	"github.com/kirillkom/ticket-analyzer/internal/observability/metrics"
)

const serviceName = "ticket-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	logger := logging.New(serviceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	classificationMetrics := metrics.NewClassificationMetrics(serviceName, workerMetrics.Registerer())

	app, err := bootstrap.New(ctx, cfg, logger, classificationMetrics)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	deduper, closeDeduper := bootstrap.NewDeduper(cfg, logger)
	defer closeDeduper()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()

	sweepUC := usecase.NewBacklogSweepUseCase(app.Store, app.ProcessUC, deduper)
	scheduler, err := worker.NewBacklogScheduler(cfg.BacklogSchedule, sweepUC, workerMetrics, logger)
	if err != nil {
		logger.Error("backlog_schedule_invalid", "error", err)
		os.Exit(1)
	}
	if scheduler != nil {
		go scheduler.Run(ctx)
	}

	handler := worker.NewTicketHandler(app.ProcessUC, deduper, workerMetrics, logger)
	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	if err := app.Queue.SubscribeTicketCreated(ctx, handler.Handle); err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
