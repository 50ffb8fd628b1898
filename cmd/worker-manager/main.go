// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bankimport-workers/internal/common/camunda"
	"bankimport-workers/internal/common/config"
	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/common/observability"
	"bankimport-workers/internal/presenter"

	ctm "bankimport-workers/internal/workers/bank-import/classify-transaction-match"
	rtl "bankimport-workers/internal/workers/bank-import/resolve-transaction-links"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("notificationSink", cfg.Notifications.Sink),
	)

	serviceName := cfg.App.Name
	if serviceName == "" {
		serviceName = "worker-manager"
	}
	obs := observability.New(serviceName)
	defer obs.Shutdown()

	ctx := context.Background()

	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	sinks, err := buildSink(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("notification sink setup failed", zap.Error(err))
	}

	p := presenter.New(sinks.sink, log)
	builder := buildLinkBuilder(cfg)

	resolveHandler, err := rtl.NewHandler(resolveConfig(cfg), builder, p, obs, log)
	if err != nil {
		zapLog.Fatal("resolve handler setup failed", zap.Error(err))
	}
	classifyHandler, err := ctm.NewHandler(classifyConfig(cfg), obs, log)
	if err != nil {
		zapLog.Fatal("classify handler setup failed", zap.Error(err))
	}

	workers := []*camunda.Worker{
		camunda.StartWorker(zeebe.Raw(), rtl.TaskType, config.GetWorkerConfig(cfg, rtl.TaskType), resolveHandler.Handle, log),
		camunda.StartWorker(zeebe.Raw(), ctm.TaskType, config.GetWorkerConfig(cfg, ctm.TaskType), classifyHandler.Handle, log),
	}

	checks := map[string]healthChecker{"zeebe": zeebe}
	if sinks.redis != nil {
		checks["redis"] = healthCheckFunc(sinks.redis.Ping)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newStatusMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	sinks.close(log)
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
