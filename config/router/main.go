package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/akeren/wallet-waitlist/internal/log"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"github.com/akeren/wallet-waitlist/pkg/ratelimit"
	"github.com/akeren/wallet-waitlist/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	defaultPort           = "8080"
	defaultRequestTimeout = 30 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RouterService struct {
	engine            *gin.Engine
	server            *http.Server
	logger            *log.Logger
	policy            httpPolicy
	requestTimeout    time.Duration
	rateLimiter       ratelimit.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
	redisClient       *redis.Client
	metricsRegistry   *prometheus.Registry

	// Keyed by "METHOD-/route"; controller overrides are keyed by mount point.
	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

type RouterConfig struct {
	Port              string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	if mode := utils.GetEnvTrimmed("GIN_MODE"); mode != "" {
		logger.Info("Setting Gin mode", "mode", mode)
		gin.SetMode(mode)
	}

	requestTimeout := routerConfig.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	port := routerConfig.Port
	if port == "" {
		port = defaultPort
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())

	if utils.IsTracingEnabled() {
		ginRouter.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	rs := &RouterService{
		engine:                 ginRouter,
		logger:                 logger,
		policy:                 loadHTTPPolicy(),
		requestTimeout:         requestTimeout,
		rateLimitRequests:      routerConfig.RateLimitRequests,
		rateLimitWindow:        routerConfig.RateLimitWindow,
		redisClient:            redisClientFrom(cache),
		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}

	// Gin trusts every proxy by default, which lets X-Forwarded-For spoof ClientIP()
	// and with it the per-IP rate limit key.
	if err := ginRouter.SetTrustedProxies(rs.policy.trustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = ginRouter.SetTrustedProxies(nil)
	} else if rs.policy.trustedProxies == nil {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	rs.initRateLimiting()

	// Mounted before the API middleware so scrapes are neither rate limited nor logged.
	rs.mountMetrics()

	ginRouter.Use(
		rs.requestContextMiddleware(),
		rs.requestLoggingMiddleware(),
		rs.securityHeadersMiddleware(),
		rs.maxBodySizeMiddleware(),
		rs.corsMiddleware(),
		rs.rateLimitMiddleware(),
		rs.timeoutMiddleware(),
	)

	ginRouter.HandleMethodNotAllowed = true
	ginRouter.RedirectTrailingSlash = true

	ginRouter.NoRoute(func(c *gin.Context) {
		rs.GetLogger(c).Warn("Route not found", "path", c.Request.URL.Path)
		ErrorResult(apperrors.StatusNotFound, "Route not found", nil).Write(c)
	})

	ginRouter.NoMethod(func(c *gin.Context) {
		rs.GetLogger(c).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		ErrorResult(apperrors.StatusMethodNotAllowed, "Method not allowed", nil).Write(c)
	})

	rs.server = &http.Server{
		Addr:    net.JoinHostPort("", port),
		Handler: ginRouter,

		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "addr", rs.server.Addr)
	return rs
}

func redisClientFrom(cache Cache) *redis.Client {
	if cache == nil {
		return nil
	}
	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}
	return nil
}

func (routerService *RouterService) GetDefaultRateLimitConfig() (int, time.Duration) {
	return routerService.rateLimitRequests, routerService.rateLimitWindow
}

// MetricsRegisterer returns the registry served on /metrics, or nil when metrics are disabled.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	if routerService.metricsRegistry == nil {
		return nil
	}
	return routerService.metricsRegistry
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

// GetLogger returns the request-scoped logger, tagged with the correlation ID.
func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(c.Request.Context(), routerService.logger)
}

func (routerService *RouterService) Cleanup() {
	if routerService.rateLimiter != nil {
		if err := routerService.rateLimiter.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "error", err)
		}
	}

	for key, limiter := range routerService.rateLimitOverrides {
		if err := limiter.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "key", key, "error", err)
		}
	}

	routerService.logger.Info("Router service cleanup completed")
}

func (routerService *RouterService) MountController(controller *RESTController) {
	routerService.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
	)

	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

// RunHTTPServer blocks until the server stops. A graceful Shutdown is not an error.
func (routerService *RouterService) RunHTTPServer() error {
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		routerService.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully")
	return routerService.server.Shutdown(ctx)
}
