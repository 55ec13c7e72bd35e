package config

import (
	"context"
	"time"

	"github.com/akeren/wallet-waitlist/config/router"
	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/pkg/constants"
	"github.com/akeren/wallet-waitlist/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
	// AutoMigrate is set when the schema should be provisioned before serving.
	AutoMigrate bool
}

type AppConfig struct {
	Port              string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	SchemaInitTimeout time.Duration
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		Port:              utils.GetEnvTrimmedOrDefault("APP_PORT", constants.DefaultHTTPPort),
		RateLimitRequests: utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   utils.GetEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow),
		RequestTimeout:    utils.GetEnvDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		ShutdownTimeout:   utils.GetEnvDuration("SHUTDOWN_TIMEOUT", constants.DefaultShutdownTimeout),
		SchemaInitTimeout: utils.GetEnvDuration("SCHEMA_INIT_TIMEOUT", constants.DefaultSchemaInitTimeout),
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, NewDBConfig())
	if err != nil {
		return nil, err
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		Port:              appConfig.Port,
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
		AutoMigrate:     autoMigrate,
	}, nil
}
