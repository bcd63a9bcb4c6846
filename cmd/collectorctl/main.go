package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pazhukov/magic-collector/cmd/collectorctl/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}
