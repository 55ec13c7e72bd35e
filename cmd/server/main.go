package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/akeren/wallet-waitlist/config"
	"github.com/akeren/wallet-waitlist/domain"
	"github.com/akeren/wallet-waitlist/domain/waitlist"
	"github.com/akeren/wallet-waitlist/internal/log"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()
	logger.Info("Wallet waitlist server initialized")

	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrateRequested(os.Args[1:]))
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		os.Exit(1)
	}

	if appConfig.AutoMigrate {
		if err := initializeSchema(appConfig); err != nil {
			logger.Error("Failed to initialize waitlist schema", "error", err.Error())
			appConfig.Cleanup()
			os.Exit(1)
		}
	}

	domain.SetupCoreDomain(appConfig)

	if err := serve(appConfig); err != nil {
		logger.Error("Server error", "error", err)
		appConfig.Cleanup()
		os.Exit(1)
	}

	appConfig.Cleanup()
	logger.Info("Graceful shutdown completed")
}

func autoMigrateRequested(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			return true
		}
	}
	return false
}

// initializeSchema provisions the waitlist table and index; both statements are idempotent.
func initializeSchema(appConfig *config.ApplicationConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Config.SchemaInitTimeout)
	defer cancel()

	repository := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, nil).CreateRepository()
	if err := repository.Initialize(ctx); err != nil {
		return err
	}

	appConfig.Logger.Info("Waitlist schema initialized")
	return nil
}

// serve blocks until the HTTP server fails or SIGINT/SIGTERM arrives, then drains in-flight requests.
func serve(appConfig *config.ApplicationConfig) error {
	logger := appConfig.Logger

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("Shutdown signal received, shutting down gracefully", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Config.ShutdownTimeout)
	defer cancel()

	if err := appConfig.RouterService.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}
	return nil
}
