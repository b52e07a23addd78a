package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("action forbidden")
	ErrUnauthorized       = errors.New("unauthorized")

	// Calendar configuration - a broken calendar would make every working
	// duration zero, indistinguishable from "no incidents", so runs must
	// fail up front instead.
	ErrNoBusinessDays       = errors.New("working hours config defines no business days")
	ErrInvalidWorkingWindow = errors.New("daily end hour must be after start hour")

	// Analysis validation
	ErrInvalidPeriod     = errors.New("analysis period end must be after start")
	ErrInvalidZThreshold = errors.New("outlier z-score threshold must be positive")
	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidPriority   = errors.New("invalid ticket priority")

	// Ticket source
	ErrTicketSourceUnavailable = errors.New("ticket source unavailable")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewConfigurationError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    err.Error(),
		Code:       "CONFIGURATION_ERROR",
		StatusCode: 422,
	}
}

func NewUpstreamError(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrTicketSourceUnavailable, err),
		Message:    "Ticket source is unavailable",
		Code:       "TICKET_SOURCE_UNAVAILABLE",
		StatusCode: 502,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}
