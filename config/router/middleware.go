package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akeren/wallet-waitlist/internal/log"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"github.com/gin-gonic/gin"
)

const correlationIDHeader = "X-Correlation-ID"

// requestContextMiddleware stores the correlation ID and a logger bound to it
// on the request context, so services and repositories log with the same ID.
func (routerService *RouterService) requestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationIDHeader)
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		c.Header(correlationIDHeader, id)

		ctx := log.ContextWithCorrelationID(c.Request.Context(), id)
		ctx = log.ContextWithLogger(ctx, routerService.logger.WithCorrelationID(ctx))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		routerService.GetLogger(c).Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	hsts := routerService.policy.hstsHeader

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if hsts != "" && servedOverHTTPS(c) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := routerService.policy.maxBodyBytes

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			ErrorResult(http.StatusRequestEntityTooLarge, "Request payload too large", nil).Abort(c)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	policy := routerService.policy
	if len(policy.allowedOrigins) == 0 {
		routerService.logger.Warn("CORS_ALLOWED_ORIGIN not set, cross-origin requests will be denied")
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !policy.originAllowed(origin) {
			routerService.GetLogger(c).Warn("CORS origin not allowed", "origin", origin)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(apperrors.StatusNoContent)
			return
		}

		c.Next()
	}
}

// timeoutMiddleware attaches a deadline to the request context. Handlers run on
// the request goroutine because gin.Context is not safe for concurrent use, so a
// late handler is only answered with 408 if it wrote nothing. The http.Server
// read and write timeouts cover the rest.
func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	timeout := routerService.requestTimeout

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			routerService.GetLogger(c).Warn("Request timeout detected", "timeout", timeout.String())
			ErrorResult(apperrors.StatusRequestTimeout, "Request timeout", nil).Abort(c)
		}
	}
}
