package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akeren/wallet-waitlist/config"
	"github.com/akeren/wallet-waitlist/domain/waitlist"
	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/pkg/migrations"
	"github.com/akeren/wallet-waitlist/pkg/utils"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		db := mustOpenDatabase(logger)
		defer config.CloseDatabase(db, logger)

		if db.Dialector.Name() != config.DriverPostgres {
			logger.Error("SQL migrations target PostgreSQL; use init-schema for other drivers", "driver", db.Dialector.Name())
			os.Exit(1)
		}

		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("Failed to get SQL DB instance for migration", "error", err.Error())
			os.Exit(1)
		}

		migrationsDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := migrations.Up(ctx, sqlDB, migrations.Config{Dir: migrationsDir, Logger: logger}); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}

		logger.Info("Database migrations completed")
		return

	case "init-schema", "init":
		db := mustOpenDatabase(logger)
		defer config.CloseDatabase(db, logger)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		repository := waitlist.NewWaitlistServiceFactory(db, logger, nil).CreateRepository()
		if err := repository.Initialize(ctx); err != nil {
			logger.Error("Waitlist schema initialization failed", "error", err.Error())
			os.Exit(1)
		}

		logger.Info("Waitlist schema initialized")
		return

	case "count":
		db := mustOpenDatabase(logger)
		defer config.CloseDatabase(db, logger)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		count := waitlist.NewWaitlistRepository(db, logger).Count(ctx)
		fmt.Println(formatCount(count, hasFlag(args[1:], "--pretty")))
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func mustOpenDatabase(logger *log.Logger) *gorm.DB {
	db, err := config.NewDatabase(logger, config.NewDBConfig())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	return db
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate      Run SQL migrations from MIGRATIONS_DIR (PostgreSQL only) and exit")
	fmt.Println("  init-schema  Create the waitlist table and indexes if they do not exist")
	fmt.Println("  count        Print the number of waitlist entries (0 if the store is unreachable)")
	fmt.Println("               --pretty groups digits for the locale in CLI_LOCALE (default en)")
}
