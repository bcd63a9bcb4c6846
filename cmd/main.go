package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pazhukov/magic-collector/internal/application"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := new(slog.LevelVar)

	log := logx.NewLogger(os.Stdout, level)
	slog.SetDefault(log)

	if err := application.Run(ctx, log, level); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
