package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"alphadash/internal/shared/config"
	"alphadash/internal/shared/logger"
	"alphadash/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  environment(cfg),
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		}, zl)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				zl.Warn("telemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := NewScheduler(cfg, deps, zl)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		zl.Info("scheduler started", zap.Time("next_run", sched.Next()))
	}

	handler := SetupRoutes(deps, cfg, zl)
	srv, redirectSrv, errCh := StartServers(NewServerConfigFromConfig(handler, cfg), zl)

	// Wait for a signal or a listener failure
	select {
	case <-ctx.Done():
	case err = <-errCh:
		zl.Error("server error", zap.Error(err))
	}

	GracefulShutdown(srv, redirectSrv, sched, shutdownTimeout, zl)
	return err
}

func environment(cfg *config.Config) string {
	if cfg.Log.Development {
		return "development"
	}
	return "production"
}
