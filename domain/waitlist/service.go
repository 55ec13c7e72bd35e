package waitlist

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/akeren/wallet-waitlist/internal/log"
	"github.com/akeren/wallet-waitlist/pkg/circuitbreaker"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
)

const (
	countCacheKey = "waitlist:count"
	countCacheTTL = 30 * time.Second

	countBreakerFailures = 5
	countBreakerRecovery = 30 * time.Second
)

// Cache is the subset of the application cache used to memoise the waitlist count.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type WaitlistService interface {
	// CreateEntry registers a Twitter username and wallet address on the waitlist.
	CreateEntry(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error)

	// GetCount returns the number of signups. It never fails; storage problems yield 0.
	GetCount(ctx context.Context) *WaitlistCountResponse

	// FindEntryByID retrieves a waitlist entry by its unique ID.
	FindEntryByID(ctx context.Context, id uint) (*WaitlistEntryResponse, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	cache      Cache
	breaker    circuitbreaker.CircuitBreaker

	// countVersion is bumped on every invalidation so a count computed before an
	// insert is never left in the cache.
	countVersion atomic.Uint64
}

// NewWaitlistService builds the service; cache may be nil.
func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, cache Cache) WaitlistService {
	return &waitlistService{
		logger:     logger,
		repository: repository,
		cache:      cache,
		breaker: circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
			FailureThreshold: countBreakerFailures,
			RecoveryTimeout:  countBreakerRecovery,
			OnStateChange: func(from, to circuitbreaker.CircuitState) {
				logger.Warn("Waitlist count circuit changed state", "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (s *waitlistService) CreateEntry(ctx context.Context, req *CreateWaitlistEntryRequest) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateEntry received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	username := strings.TrimSpace(req.TwitterUsername)
	wallet := strings.TrimSpace(req.WalletAddress)

	if username == "" || wallet == "" {
		logger.Error("CreateEntry received blank fields")
		return nil, apperrors.NewInvalidRequestError("twitter username and wallet address are required", nil)
	}

	entry, err := s.repository.Insert(ctx, username, wallet)
	if err != nil {
		logger.Error("Failed to create waitlist entry", "error", err)
		return nil, err
	}

	s.invalidateCount(ctx, logger)

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}

func (s *waitlistService) GetCount(ctx context.Context) *WaitlistCountResponse {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if cached, ok := s.cachedCount(ctx, logger); ok {
		return &WaitlistCountResponse{Count: cached}
	}

	version := s.countVersion.Load()

	var count int64
	err := s.breaker.Call(func() error {
		var countErr error
		count, countErr = s.repository.CountEntries(ctx)
		return countErr
	})
	if err != nil {
		logger.Error("Error getting waitlist count", "error", err, "breaker", s.breaker.State().String())
		return &WaitlistCountResponse{Count: 0}
	}

	s.cacheCount(ctx, logger, count, version)

	return &WaitlistCountResponse{Count: count}
}

func (s *waitlistService) FindEntryByID(ctx context.Context, id uint) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if id == 0 {
		logger.Error("FindEntryByID received invalid ID")
		return nil, apperrors.NewInvalidRequestError("invalid entry ID", nil)
	}

	entry, err := s.repository.FindEntryByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find waitlist entry", "id", id, "error", err)
		return nil, err
	}

	response := ToWaitlistEntryResponse(entry)
	return &response, nil
}

func (s *waitlistService) cachedCount(ctx context.Context, logger *log.Logger) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}

	raw, err := s.cache.Get(ctx, countCacheKey)
	if err != nil {
		logger.Warn("Failed to read cached waitlist count", "error", err)
		return 0, false
	}
	if raw == "" {
		return 0, false
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("Discarding malformed cached waitlist count", "value", raw)
		return 0, false
	}

	return count, true
}

// cacheCount stores a count read at version. When an insert invalidated the key
// while the count ran, the write is skipped, or undone if the insert landed after it.
func (s *waitlistService) cacheCount(ctx context.Context, logger *log.Logger, count int64, version uint64) {
	if s.cache == nil || s.countVersion.Load() != version {
		return
	}

	if err := s.cache.Set(ctx, countCacheKey, strconv.FormatInt(count, 10), countCacheTTL); err != nil {
		logger.Warn("Failed to cache waitlist count", "error", err)
		return
	}

	if s.countVersion.Load() != version {
		s.deleteCachedCount(ctx, logger)
	}
}

func (s *waitlistService) invalidateCount(ctx context.Context, logger *log.Logger) {
	s.countVersion.Add(1)
	if s.cache == nil {
		return
	}

	s.deleteCachedCount(ctx, logger)
}

func (s *waitlistService) deleteCachedCount(ctx context.Context, logger *log.Logger) {
	if err := s.cache.Delete(ctx, countCacheKey); err != nil {
		logger.Warn("Failed to invalidate cached waitlist count", "error", err)
	}
}
