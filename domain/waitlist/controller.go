package waitlist

import (
	"time"

	"github.com/akeren/wallet-waitlist/config/router"
	"github.com/akeren/wallet-waitlist/internal/log"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
	"github.com/akeren/wallet-waitlist/pkg/factory"
	"github.com/akeren/wallet-waitlist/pkg/ratelimit"
	"gorm.io/gorm"
)

const waitlistCreationRequestsPerMinute = 30

// ControllerCache is what the controller needs from the application cache: count
// memoisation for the service and a liveness check for the signup rate limiter.
type ControllerCache interface {
	Cache
	factory.Cache
}

func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
	cache ControllerCache,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db, logger)
			service := NewWaitlistService(logger, repository, cache)

			waitlistCreationLimiter := createWaitlistCreationRateLimiter(logger, cache)
			metrics := newSignupMetrics(rs.MetricsRegisterer())

			rs.AddPostHandler(c, waitlistCreationLimiter, "", createWaitlistEntryHandler(service, metrics))
			rs.AddGetHandler(c, nil, "/count", getWaitlistCountHandler(service))
			rs.AddGetHandler(c, nil, "/:id", getWaitlistEntryHandler(service))
		},
	)
}

func createWaitlistCreationRateLimiter(logger *log.Logger, cache factory.Cache) ratelimit.RateLimiter {
	return factory.NewDefaultRateLimiterFactory(
		"waitlist:create",
		waitlistCreationRequestsPerMinute,
		time.Minute,
		cache,
		logger,
	).CreateRateLimiter()
}

func createWaitlistEntryHandler(service WaitlistService, metrics *signupMetrics) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateWaitlistEntryRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			metrics.observe(apperrors.NewInvalidRequestError("invalid payload", err))

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.CreateEntry(ctx.Request.Context(), &req)
		metrics.observe(err)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Waitlist entry")
	}
}

func getWaitlistCountHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		return router.OKResult(service.GetCount(ctx.Request.Context()), "Waitlist count retrieved successfully")
	}
}

func getWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		response, err := service.FindEntryByID(ctx.Request.Context(), id)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Waitlist entry retrieved successfully")
	}
}
