package constants

import "time"

// RFC3339DateTimeFormat is used for every timestamp the API serializes.
const RFC3339DateTimeFormat = time.RFC3339

const ServiceName = "wallet-waitlist"

const (
	DefaultHTTPPort = "8080"

	// DefaultRateLimitRequests applies per client IP to every route without its own limiter.
	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = time.Minute

	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultSchemaInitTimeout bounds table and index provisioning at startup.
	DefaultSchemaInitTimeout = time.Minute
)
