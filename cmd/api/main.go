package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pr-poehali-dev/cloud-test-site/internal/config"
	"github.com/pr-poehali-dev/cloud-test-site/internal/database"
	"github.com/pr-poehali-dev/cloud-test-site/internal/handler"
	loggerPkg "github.com/pr-poehali-dev/cloud-test-site/internal/logger"
	"github.com/pr-poehali-dev/cloud-test-site/internal/middleware"
	"github.com/pr-poehali-dev/cloud-test-site/internal/repository"
	"github.com/pr-poehali-dev/cloud-test-site/internal/router"
	"github.com/pr-poehali-dev/cloud-test-site/internal/server"
	"github.com/pr-poehali-dev/cloud-test-site/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// config.Load fails fast internally; this guards the contract.
		os.Exit(1)
	}

	logger := loggerPkg.New(cfg)
	loggerService := loggerPkg.NewLoggerService(cfg, &logger)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, &logger, cfg); err != nil {
		cancelMigrate()
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	cancelMigrate()

	srv, err := server.New(cfg, &logger, loggerService)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}

	mws := middleware.NewMiddlewares(srv)
	handlers := handler.NewHandlers(srv, services)

	srv.SetupHTTPServer(router.New(srv, mws, handlers))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	logger.Info().Msg("server stopped")
}
