package errors

import "net/http"

const (
	StatusNoContent           = http.StatusNoContent
	StatusBadRequest          = http.StatusBadRequest
	StatusNotFound            = http.StatusNotFound
	StatusMethodNotAllowed    = http.StatusMethodNotAllowed
	StatusRequestTimeout      = http.StatusRequestTimeout
	StatusConflict            = http.StatusConflict
	StatusTooManyRequests     = http.StatusTooManyRequests
	StatusInternalServerError = http.StatusInternalServerError
)

// genericMessage replaces anything that is not an AppError so driver and
// network errors never reach a response body.
const genericMessage = "An unexpected error occurred"

var statusByType = map[ErrorType]int{
	ErrorTypeNotFound:          StatusNotFound,
	ErrorTypeInvalidRequest:    StatusBadRequest,
	ErrorTypeConflict:          StatusConflict,
	ErrorTypeRateLimitExceeded: StatusTooManyRequests,
	ErrorTypeRequestTimeout:    StatusRequestTimeout,
}

func HTTPStatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode()
	}
	return StatusInternalServerError
}

func GetHumanReadableMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return genericMessage
}
