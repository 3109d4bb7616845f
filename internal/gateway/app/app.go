package app

import (
	"context"
	"fmt"

	"facilitator/internal/gateway/config"
	"facilitator/internal/gateway/handler"
	"facilitator/internal/gateway/handler/rpc"
	"facilitator/internal/gateway/server"
)

type App struct {
	server *server.Server
	core   *Core
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(context.Background(), cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Dependencies
	core, err := NewCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	meetingHandler := handler.NewMeetingHandler(core.Meeting)
	facilitatorHandler := rpc.NewFacilitatorHandler(core.Meeting)

	// Routing & Server
	mux := server.NewMux(cfg.APIKey, meetingHandler, facilitatorHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		core:   core,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.core.Close(); err == nil {
		err = cerr
	}
	return err
}
