// Package main runs the simulator without a window, serving its geometry
// over a websocket stream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/mod1/internal/app"
	"github.com/Faultbox/mod1/internal/config"
	"github.com/Faultbox/mod1/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== mod1d ===")
	if cfg.Stream.Addr == "" {
		logger.Warn("stream disabled, set -stream or stream.addr to watch the simulation")
	}

	h, err := app.NewHeadless(cfg, logger.Named("sim"))
	if err != nil {
		logger.Error("failed to start simulator", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := h.Run(ctx); err != nil {
		logger.Error("simulator error", zap.Error(err))
		os.Exit(1)
	}
}
