package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/wallet-waitlist/config/router"
	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type pingCache struct {
	err error
}

func (c pingCache) Ping(context.Context) error {
	return c.err
}

func newTestDB(t *testing.T, provisioned bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if provisioned {
		require.NoError(t, db.Exec("CREATE TABLE "+models.WaitlistEntryTableName+" (id INTEGER PRIMARY KEY)").Error)
	}
	return db
}

func getHealth(t *testing.T, db *gorm.DB, cache Cache) HealthStatus {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "false")

	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	rs.MountController(NewMonitoringControllerFactory(db, logger, cache).CreateController())

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Code int          `json:"code"`
		Data HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Code)
	return body.Data
}

func TestHealthCheck_ProvisionedWithoutCache(t *testing.T) {
	status := getHealth(t, newTestDB(t, true), nil)

	assert.Equal(t, 1, status.Database)
	assert.Equal(t, 1, status.Schema)
	assert.Equal(t, 0, status.Cache)
}

func TestHealthCheck_SchemaMissing(t *testing.T) {
	status := getHealth(t, newTestDB(t, false), pingCache{})

	assert.Equal(t, 1, status.Database)
	assert.Equal(t, 0, status.Schema)
	assert.Equal(t, 1, status.Cache)
}

func TestHealthCheck_DependenciesDown(t *testing.T) {
	db := newTestDB(t, true)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status := getHealth(t, db, pingCache{err: errors.New("connection refused")})

	assert.Equal(t, 0, status.Database)
	assert.Equal(t, 0, status.Schema)
	assert.Equal(t, 0, status.Cache)
}

func TestMonitorEndpoint(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "false")

	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, nil, &router.RouterConfig{RateLimitRequests: 100, RateLimitWindow: time.Minute})
	rs.MountController(NewMonitoringControllerFactory(nil, logger, nil).CreateController())

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Monitoring endpoint is operational.")
}
