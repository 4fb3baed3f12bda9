package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"nbody_galaxy_sim/internal/config"
	"nbody_galaxy_sim/internal/server"
	"nbody_galaxy_sim/internal/watchdog"
	"nbody_galaxy_sim/pkg/logger"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logCfg := logger.Config{
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		ServiceName: "nbody-sim",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		stdlog.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + getenv("PORT", "8080")
	wd := watchdog.New(log, config.WatchdogPeriod)
	srv := server.New(addr, config.DefaultConfig(), wd, log)

	log.Info("starting galaxy collision simulation server", zap.String("addr", addr))
	if err := srv.Run(ctx); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}
