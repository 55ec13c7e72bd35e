package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/pkg/utils"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// InitializeEnvFile loads ENV_FILE (comma-separated, default ".env") without
// overriding variables that are already set.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	files := envFiles(os.Getenv("ENV_FILE"))
	logger.Info("Initializing environment variables from env files if present", "files", files)

	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No env file found or failed to load it", "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded from env files successfully")
}

func envFiles(raw string) []string {
	if files := utils.SplitList(raw); len(files) > 0 {
		return files
	}
	return []string{".env"}
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))

	switch env {
	case "", "dev", "development", "local", "test", "testing":
		return nil
	default:
		return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)", AppEnvKey, env)
	}
}
