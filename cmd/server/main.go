package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/summarizetube/summarizetube-backend/internal/api"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := config.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	svc, err := services.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize services")
	}
	defer svc.Close()

	app := api.NewApp(svc)

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.WithError(err).Warn("Shutdown did not complete cleanly")
		}
	}()

	logger.Infof("SummarizeTube starting on %s", cfg.Address())
	if err := app.Listen(cfg.Address()); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
