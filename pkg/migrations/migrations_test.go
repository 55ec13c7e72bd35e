package migrations

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *testLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *testLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *testLogger) Error(string, ...any) {}

type fakeMigrator struct {
	upErr   error
	version uint
}

func (m *fakeMigrator) Up() error { return m.upErr }

func (m *fakeMigrator) Version() (uint, bool, error) { return m.version, false, nil }

func (m *fakeMigrator) Close() (error, error) { return nil, nil }

type blockingMigrator struct {
	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

func newBlockingMigrator() *blockingMigrator {
	return &blockingMigrator{closeCh: make(chan struct{})}
}

func (m *blockingMigrator) Up() error {
	<-m.closeCh
	return nil
}

func (m *blockingMigrator) Version() (uint, bool, error) { return 0, false, nil }

func (m *blockingMigrator) Close() (error, error) {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		close(m.closeCh)
	})
	return nil, nil
}

// stubFactories swaps the driver and migrator constructors for the duration of the test
// and records the source URL and config they were called with.
func stubFactories(t *testing.T, m migrator, initErr error) (*string, *Config, *atomic.Bool) {
	t.Helper()

	origDriverFactory := driverFactory
	origMigratorFactory := migratorFactory
	t.Cleanup(func() {
		driverFactory = origDriverFactory
		migratorFactory = origMigratorFactory
	})

	var gotURL string
	var gotCfg Config
	var called atomic.Bool

	driverFactory = func(_ *sql.DB, cfg Config) (database.Driver, error) {
		called.Store(true)
		gotCfg = cfg
		return nil, nil
	}
	migratorFactory = func(sourceURL string, _ database.Driver) (migrator, error) {
		called.Store(true)
		gotURL = sourceURL
		if initErr != nil {
			return nil, initErr
		}
		return m, nil
	}

	return &gotURL, &gotCfg, &called
}

func TestUp_NilDB(t *testing.T) {
	assert.Error(t, Up(context.Background(), nil, Config{}))
}

func TestUp_ContextAlreadyCancelled(t *testing.T) {
	_, _, called := stubFactories(t, &fakeMigrator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load(), "no driver or migrator should be created")
}

func TestUp_DeadlineExceededClosesMigrator(t *testing.T) {
	block := newBlockingMigrator()
	stubFactories(t, block, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, block.closed.Load())
}

func TestUp_NoChangeIsSuccess(t *testing.T) {
	stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)
	logger := &testLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
	assert.Contains(t, logger.infos, "No migrations to apply")
}

func TestUp_SuccessLogsApplied(t *testing.T) {
	stubFactories(t, &fakeMigrator{version: 1}, nil)
	logger := &testLogger{}

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}))
	assert.Contains(t, logger.infos, "Migrations applied successfully")
}

func TestUp_UpErrorIsWrapped(t *testing.T) {
	cause := errors.New("syntax error at or near SERIAL")
	stubFactories(t, &fakeMigrator{upErr: cause}, nil)

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "migrations: up")
}

func TestUp_MigratorInitError(t *testing.T) {
	stubFactories(t, nil, errors.New("boom"))

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations: init")
}

func TestUp_AppliesDefaultsAndFileURL(t *testing.T) {
	gotURL, gotCfg, _ := stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)
	tmp := t.TempDir()

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: tmp}))

	abs, _ := filepath.Abs(tmp)
	assert.Equal(t, (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), *gotURL)
	assert.Equal(t, defaultTable, gotCfg.MigrationsTable)
}

func TestUp_HandlesPathsWithSpaces(t *testing.T) {
	gotURL, _, _ := stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)

	dir := filepath.Join(t.TempDir(), "waitlist migrations")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	require.NoError(t, Up(context.Background(), &sql.DB{}, Config{Dir: dir}))

	parsed, err := url.Parse(*gotURL)
	require.NoError(t, err)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, "file", parsed.Scheme)
	assert.Equal(t, filepath.ToSlash(abs), parsed.Path)
}

func TestShippedMigrationsArePaired(t *testing.T) {
	ups, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := up[:len(up)-len(".up.sql")] + ".down.sql"
		_, err := os.Stat(down)
		assert.NoError(t, err, "missing down migration for %s", filepath.Base(up))
	}
}
