// cmd/scoring-service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DWS-OmarMoreno/alfix-services/internal/api"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/camunda"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	"github.com/DWS-OmarMoreno/alfix-services/internal/common/logger"
	"github.com/DWS-OmarMoreno/alfix-services/internal/service"
	ccs "github.com/DWS-OmarMoreno/alfix-services/internal/workers/credit/calculate-credit-score"
)

// retryWithBackoff attempts operation with exponential backoff.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scoring-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scoring service",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := service.Build(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(context.Background()); err != nil {
			zapLog.Warn("shutdown left resources open", zap.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.Enabled {
		server := api.NewServer(cfg.Server, svc.Router, log)
		g.Go(server.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.Camunda.Enabled && config.IsWorkerEnabled(cfg, ccs.TaskType) {
		var client *camunda.Client
		err := retryWithBackoff(ctx, func() error {
			var err error
			client, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			return err
		}
		defer client.Close()

		workerCfg := ccs.LoadConfig(cfg)
		handler := ccs.NewHandler(workerCfg, svc.Engine, client.Retrier(), log)
		w := camunda.NewWorker(client.GetClient(), ccs.TaskType, workerCfg.MaxJobsActive, workerCfg.Timeout, handler, zapLog)

		g.Go(func() error {
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
			defer cancel()
			w.Stop(stopCtx)
			return nil
		})
	}

	zapLog.Info("Scoring service running",
		zap.Bool("http", cfg.Server.Enabled),
		zap.Bool("zeebe", cfg.Camunda.Enabled),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zapLog.Info("Scoring service stopped")
	return nil
}
