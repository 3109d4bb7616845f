package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"facilitator/internal/gateway/app"
	"facilitator/internal/gateway/config"
)

const minShutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Facilitator gateway: %s", cfg.Summary())

	a, err := app.NewWithConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.Start(); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()
	<-ctx.Done()

	// In-flight interval updates may run up to the interval deadline.
	grace := max(minShutdownGrace, cfg.Interval.Timeout)
	log.Printf("Shutting down server (grace %s)...", grace)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
