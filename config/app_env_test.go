package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAutoMigrateAllowed_AllowsDevLikeEnvs(t *testing.T) {
	for _, env := range []string{"", "dev", "development", "local", "test", "testing", "DEV", "  Local  "} {
		t.Run(env, func(t *testing.T) {
			assert.NoError(t, ValidateAutoMigrateAllowed(env))
		})
	}
}

func TestValidateAutoMigrateAllowed_RejectsProdAndOtherEnvs(t *testing.T) {
	for _, env := range []string{"prod", "production", "staging", "preprod", " Production ", "qa"} {
		t.Run(env, func(t *testing.T) {
			assert.Error(t, ValidateAutoMigrateAllowed(env))
		})
	}
}

func TestEnvFiles(t *testing.T) {
	assert.Equal(t, []string{".env"}, envFiles(""))
	assert.Equal(t, []string{".env"}, envFiles(" , "))
	assert.Equal(t, []string{"a.env", "b.env"}, envFiles("a.env, b.env"))
}

func TestInitializeEnvFile_LoadsWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waitlist.env")
	require.NoError(t, os.WriteFile(path, []byte("WAITLIST_TEST_FROM_FILE=file\nWAITLIST_TEST_PRESET=file\n"), 0o600))

	t.Setenv("SKIP_DOTENV", "")
	t.Setenv("ENV_FILE", path)
	t.Setenv("WAITLIST_TEST_PRESET", "process")
	t.Cleanup(func() { _ = os.Unsetenv("WAITLIST_TEST_FROM_FILE") })

	InitializeEnvFile(log.NewLoggerWithJSONOutput())

	assert.Equal(t, "file", os.Getenv("WAITLIST_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("WAITLIST_TEST_PRESET"))
}
