package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvOrDefault returns the raw value of key, or defaultValue when it is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	if v := GetEnvTrimmed(key); v != "" {
		return v
	}

	return defaultValue
}

// GetEnvBool parses key with strconv.ParseBool. Unset or malformed values yield fallback.
func GetEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(GetEnvTrimmed(key))
	if err != nil {
		return fallback
	}

	return b
}

// GetEnvPositiveInt returns fallback unless key holds an integer greater than zero.
func GetEnvPositiveInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetEnvTrimmed(key))
	if err != nil || v <= 0 {
		return fallback
	}

	return v
}

func GetEnvPositiveInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(GetEnvTrimmed(key), 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}

	return v
}

// GetEnvDuration accepts time.ParseDuration syntax ("30s", "1m"). Non-positive values yield fallback.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnvTrimmed(key))
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

// GetEnvList splits a comma-separated variable, dropping blank items.
func GetEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

func SplitList(raw string) []string {
	var items []string

	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", "wallet-waitlist")
}
