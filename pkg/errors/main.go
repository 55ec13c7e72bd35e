package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError. It decides the HTTP status and the
// signup metric outcome, never the client message.
type ErrorType string

const (
	ErrorTypeDatabaseError       ErrorType = "DATABASE_ERROR"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeInvalidRequest      ErrorType = "INVALID_REQUEST"
	ErrorTypeConflict            ErrorType = "CONFLICT"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
	ErrorTypeRateLimitExceeded   ErrorType = "RATE_LIMIT_EXCEEDED"
	ErrorTypeRequestTimeout      ErrorType = "REQUEST_TIMEOUT"
	ErrorTypeUnknown             ErrorType = "UNKNOWN_ERROR"
)

// AppError pairs a type and a client-safe Message with the underlying cause.
// Err stays reachable through errors.Is and errors.As but is never rendered
// to clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode is the HTTP status for the error's type.
func (e *AppError) StatusCode() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return StatusInternalServerError
}

func NewAppError(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabaseError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConflict, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternalServerError, message, err)
}

// AsAppError finds the outermost AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil || !errors.As(err, &appErr) {
		return nil, false
	}
	return appErr, true
}

// GetErrorType returns "" for nil and ErrorTypeUnknown when no AppError is in the chain.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeUnknown
}
