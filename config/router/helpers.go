package router

import (
	"net/http"
	"strconv"

	"github.com/akeren/wallet-waitlist/internal/log"
	apperrors "github.com/akeren/wallet-waitlist/pkg/errors"
)

// GetLogger returns the logger the router stored on the request, for handlers
// that only hold a RequestContext.
func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Data: data, Message: message}
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusOK, Data: data, Message: message}
}

// CreatedResult answers 201 with "<resourceName> created successfully".
func CreatedResult(data any, resourceName string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusCreated, Data: data, Message: resourceName + " created successfully"}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return ErrorResult(http.StatusBadRequest, message, payload)
}

func NotFoundResult(message string) *ServiceResult {
	return ErrorResult(http.StatusNotFound, message, nil)
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return ErrorResult(http.StatusTooManyRequests, "Too Many Requests", data)
}

func InternalServerErrorResult(message string) *ServiceResult {
	return ErrorResult(http.StatusInternalServerError, message, nil)
}

// AppErrorResult renders err with the status and client-safe message of its AppError.
// Errors outside the AppError taxonomy become a generic 500.
func AppErrorResult(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
}

// ParseIDParam reads a uint32 path parameter. The second return value is a
// ready 400 result when the parameter is not a number.
func ParseIDParam(ctx *RequestContext, paramName string) (uint, *ServiceResult) {
	raw := ctx.Param(paramName)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		GetLogger(ctx).Warn("Invalid ID parameter", "param", paramName, "value", raw, "error", err)
		return 0, BadRequestResult("Invalid ID parameter", nil)
	}

	return uint(id), nil
}
