package router

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/wallet-waitlist/pkg/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultMaxBodyBytes = int64(1 << 20)
	defaultHSTSMaxAge   = int64(31536000)

	corsAllowMethods = "POST, OPTIONS, GET"
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Correlation-ID"
)

// httpPolicy is the HTTP hardening configuration. It is read from the
// environment once, when the router is created.
type httpPolicy struct {
	trustedProxies []string
	allowedOrigins []string
	hstsHeader     string // empty disables Strict-Transport-Security
	maxBodyBytes   int64
}

func loadHTTPPolicy() httpPolicy {
	return httpPolicy{
		trustedProxies: parseTrustedProxiesEnv(os.Getenv("TRUSTED_PROXIES")),
		allowedOrigins: utils.GetEnvList("CORS_ALLOWED_ORIGIN"),
		hstsHeader:     hstsHeaderFromEnv(),
		maxBodyBytes:   utils.GetEnvPositiveInt64("MAX_REQUEST_BODY_BYTES", defaultMaxBodyBytes),
	}
}

// parseTrustedProxiesEnv returns nil when unset so ClientIP() uses RemoteAddr.
// "*" trusts every hop and is meant for local setups only.
func parseTrustedProxiesEnv(v string) []string {
	switch s := strings.TrimSpace(v); s {
	case "":
		return nil
	case "*":
		return []string{"0.0.0.0/0", "::/0"}
	default:
		return utils.SplitList(s)
	}
}

// hstsHeaderFromEnv enables HSTS in production unless HSTS_ENABLED says otherwise.
func hstsHeaderFromEnv() string {
	appEnv := strings.ToLower(utils.GetEnvTrimmed("APP_ENV"))
	if !utils.GetEnvBool("HSTS_ENABLED", appEnv == "production" || appEnv == "prod") {
		return ""
	}

	value := fmt.Sprintf("max-age=%d", utils.GetEnvPositiveInt64("HSTS_MAX_AGE", defaultHSTSMaxAge))
	if utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", true) {
		value += "; includeSubDomains"
	}
	return value
}

func (p httpPolicy) originAllowed(origin string) bool {
	for _, allowed := range p.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// servedOverHTTPS also trusts X-Forwarded-Proto for TLS terminated at a proxy.
func servedOverHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}
