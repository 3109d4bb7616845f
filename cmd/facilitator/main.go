package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"facilitator/internal/cli"
	"facilitator/internal/gateway/app"
	"facilitator/internal/gateway/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &cli.Dependencies{
		NewCore: func(ctx context.Context) (*app.Core, error) {
			cfg, err := config.LoadTool()
			if err != nil {
				return nil, fmt.Errorf("loading config: %w", err)
			}
			return app.NewCore(ctx, cfg)
		},
	}
	if err := cli.NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
