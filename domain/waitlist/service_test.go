package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/internal/models"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type memoryCache struct {
	values    map[string]string
	getErr    error
	beforeSet func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func newTestService(t *testing.T, cache Cache) (*MockWaitlistRepository, WaitlistService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, cache)
	return mockRepo, service
}

func TestWaitlistService_CreateEntry(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		req := &CreateWaitlistEntryRequest{
			TwitterUsername: "alice",
			WalletAddress:   "0xABC123",
		}

		mockRepo.EXPECT().
			Insert(gomock.Any(), "alice", "0xABC123").
			Return(&models.WaitlistEntry{
				ID:              1,
				TwitterUsername: "alice",
				WalletAddress:   "0xABC123",
				CreatedAt:       time.Now(),
			}, nil)

		result, err := service.CreateEntry(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, uint(1), result.ID)
		assert.Equal(t, req.TwitterUsername, result.TwitterUsername)
		assert.Equal(t, req.WalletAddress, result.WalletAddress)
		assert.NotEmpty(t, result.CreatedAt)
	})

	t.Run("trims whitespace before inserting", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		mockRepo.EXPECT().
			Insert(gomock.Any(), "bob", "0xDEF456").
			Return(&models.WaitlistEntry{ID: 2, TwitterUsername: "bob", WalletAddress: "0xDEF456"}, nil)

		result, err := service.CreateEntry(context.Background(), &CreateWaitlistEntryRequest{
			TwitterUsername: "  bob ",
			WalletAddress:   " 0xDEF456",
		})

		assert.NoError(t, err)
		assert.Equal(t, "bob", result.TwitterUsername)
	})

	t.Run("nil request", func(t *testing.T) {
		_, service := newTestService(t, nil)

		result, err := service.CreateEntry(context.Background(), nil)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})

	t.Run("blank fields", func(t *testing.T) {
		_, service := newTestService(t, nil)

		result, err := service.CreateEntry(context.Background(), &CreateWaitlistEntryRequest{
			TwitterUsername: "   ",
			WalletAddress:   "0xABC123",
		})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})

	t.Run("duplicate username is passed through", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		duplicate := apperrors.NewConflictError(duplicateUsernameMessage, ErrDuplicateUsername)
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, duplicate)

		result, err := service.CreateEntry(context.Background(), &CreateWaitlistEntryRequest{
			TwitterUsername: "alice",
			WalletAddress:   "0xDEF456",
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrDuplicateUsername)
		assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
		assert.Equal(t, duplicateUsernameMessage, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		result, err := service.CreateEntry(context.Background(), &CreateWaitlistEntryRequest{
			TwitterUsername: "alice",
			WalletAddress:   "0xABC123",
		})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
	})

	t.Run("successful creation invalidates cached count", func(t *testing.T) {
		cache := newMemoryCache()
		cache.values[countCacheKey] = "41"
		mockRepo, service := newTestService(t, cache)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.WaitlistEntry{ID: 42, TwitterUsername: "carol", WalletAddress: "0x42"}, nil)

		_, err := service.CreateEntry(context.Background(), &CreateWaitlistEntryRequest{
			TwitterUsername: "carol",
			WalletAddress:   "0x42",
		})

		assert.NoError(t, err)
		assert.NotContains(t, cache.values, countCacheKey)
	})
}

func TestWaitlistService_GetCount(t *testing.T) {
	t.Run("returns repository count", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(7), nil)

		assert.Equal(t, int64(7), service.GetCount(context.Background()).Count)
	})

	t.Run("storage error yields zero", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		mockRepo.EXPECT().
			CountEntries(gomock.Any()).
			Return(int64(0), apperrors.NewDatabaseError("unable to count waitlist entries", errors.New("connection refused")))

		assert.Equal(t, int64(0), service.GetCount(context.Background()).Count)
	})

	t.Run("serves cached value without touching the store", func(t *testing.T) {
		cache := newMemoryCache()
		cache.values[countCacheKey] = "12"
		_, service := newTestService(t, cache)

		assert.Equal(t, int64(12), service.GetCount(context.Background()).Count)
	})

	t.Run("populates cache on miss", func(t *testing.T) {
		cache := newMemoryCache()
		mockRepo, service := newTestService(t, cache)

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(3), nil)

		assert.Equal(t, int64(3), service.GetCount(context.Background()).Count)
		assert.Equal(t, "3", cache.values[countCacheKey])
	})

	t.Run("does not cache failures", func(t *testing.T) {
		cache := newMemoryCache()
		mockRepo, service := newTestService(t, cache)

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(0), errors.New("boom"))

		assert.Equal(t, int64(0), service.GetCount(context.Background()).Count)
		assert.NotContains(t, cache.values, countCacheKey)
	})

	t.Run("signup during count keeps the stale count out of the cache", func(t *testing.T) {
		cache := newMemoryCache()
		mockRepo, service := newTestService(t, cache)

		mockRepo.EXPECT().
			Insert(gomock.Any(), "dave", "0x44").
			Return(&models.WaitlistEntry{ID: 4, TwitterUsername: "dave", WalletAddress: "0x44"}, nil)
		mockRepo.EXPECT().
			CountEntries(gomock.Any()).
			DoAndReturn(func(ctx context.Context) (int64, error) {
				_, err := service.CreateEntry(ctx, &CreateWaitlistEntryRequest{TwitterUsername: "dave", WalletAddress: "0x44"})
				assert.NoError(t, err)
				return int64(3), nil
			})

		assert.Equal(t, int64(3), service.GetCount(context.Background()).Count)
		assert.NotContains(t, cache.values, countCacheKey)
	})

	t.Run("signup racing the cache write removes the written count", func(t *testing.T) {
		cache := newMemoryCache()
		mockRepo, service := newTestService(t, cache)

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(3), nil)
		mockRepo.EXPECT().
			Insert(gomock.Any(), "erin", "0x55").
			Return(&models.WaitlistEntry{ID: 4, TwitterUsername: "erin", WalletAddress: "0x55"}, nil)

		cache.beforeSet = func() {
			cache.beforeSet = nil
			_, err := service.CreateEntry(context.Background(), &CreateWaitlistEntryRequest{TwitterUsername: "erin", WalletAddress: "0x55"})
			assert.NoError(t, err)
		}

		assert.Equal(t, int64(3), service.GetCount(context.Background()).Count)
		assert.NotContains(t, cache.values, countCacheKey)
	})

	t.Run("cache read failure falls back to store", func(t *testing.T) {
		cache := newMemoryCache()
		cache.getErr = errors.New("redis down")
		mockRepo, service := newTestService(t, cache)

		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(5), nil)

		assert.Equal(t, int64(5), service.GetCount(context.Background()).Count)
	})

	t.Run("open circuit short-circuits to zero", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		// Default breaker opens after five consecutive failures.
		mockRepo.EXPECT().CountEntries(gomock.Any()).Return(int64(0), errors.New("connection refused")).Times(5)

		for i := 0; i < 6; i++ {
			assert.Equal(t, int64(0), service.GetCount(context.Background()).Count)
		}
	})
}

func TestWaitlistService_FindEntryByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		_, service := newTestService(t, nil)

		result, err := service.FindEntryByID(context.Background(), 0)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		mockRepo.EXPECT().
			FindEntryByID(gomock.Any(), uint(9)).
			Return(nil, apperrors.NewNotFoundError("waitlist entry not found", nil))

		result, err := service.FindEntryByID(context.Background(), 9)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusNotFound, apperrors.HTTPStatusCode(err))
	})

	t.Run("found", func(t *testing.T) {
		mockRepo, service := newTestService(t, nil)

		mockRepo.EXPECT().
			FindEntryByID(gomock.Any(), uint(1)).
			Return(&models.WaitlistEntry{ID: 1, TwitterUsername: "alice", WalletAddress: "0xABC123"}, nil)

		result, err := service.FindEntryByID(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, "alice", result.TwitterUsername)
	})
}
