package router

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/akeren/wallet-waitlist/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

func (routerService *RouterService) initRateLimiting() {
	requests := routerService.rateLimitRequests
	window := routerService.rateLimitWindow

	redisClient := routerService.redisClient
	if redisClient != nil {
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			routerService.logger.Warn("Failed to connect to Redis for rate limiting, falling back to in-memory", "error", err)
			redisClient = nil
		}
	}

	routerService.rateLimiter = ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests: requests,
		Window:   window,
		Redis:    redisClient,
		Logger:   routerService.logger,
	})

	backend := "in-memory"
	if redisClient != nil {
		backend = "redis"
	}
	routerService.logger.Info("Rate limiting initialized", "backend", backend, "requests", requests, "window", window)
}

// limiterFor resolves the limiter for the matched route. Handler overrides win
// over controller overrides, which win over the default. ok is false when the
// route is registered on the engine but not through a controller.
func (routerService *RouterService) limiterFor(c *gin.Context) (limiter ratelimit.RateLimiter, ok bool) {
	route := c.FullPath()
	if route == "" {
		// Unmatched path; NoRoute and NoMethod answer it under the default limit.
		return routerService.rateLimiter, true
	}

	handlerKey := routerService.keyForPathAndMethod(route, c.Request.Method)
	controller, found := routerService.handlerToControllerMap[handlerKey]
	if !found || controller == nil {
		return nil, false
	}

	if override, found := routerService.rateLimitOverrides[handlerKey]; found {
		return override, true
	}
	if override, found := routerService.rateLimitOverrides[controller.mountPoint]; found {
		return override, true
	}
	return routerService.rateLimiter, true
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter, ok := routerService.limiterFor(c)
		if !ok {
			routerService.GetLogger(c).Error("Route is registered without a controller mapping", "route", c.FullPath(), "method", c.Request.Method)
			NotFoundResult(fmt.Sprintf("There is no handler configured to handle any resource at the path %s", c.Request.URL.Path)).Abort(c)
			return
		}

		clientIP := c.ClientIP()
		limit, window := limiter.GetLimitDetails()
		writeRateLimitHeaders(c, limit, window)

		limited, err := limiter.IsLimited("ratelimit:" + clientIP)
		if err != nil {
			// Fail open: an unavailable limiter backend must not block signups.
			routerService.GetLogger(c).Error("Rate limiter error", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		if limited {
			routerService.GetLogger(c).Warn("Rate limit exceeded", "client_ip", clientIP, "route", c.FullPath())
			retryAfter := retryAfterSeconds(window)
			c.Header("Retry-After", retryAfter)
			TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: retryAfter,
			}).Abort(c)
			return
		}

		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, limit int, window time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Window", window.String())
}

func retryAfterSeconds(window time.Duration) string {
	return strconv.Itoa(int(math.Max(1, math.Ceil(window.Seconds()))))
}
