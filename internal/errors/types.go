package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents a specific error type for categorization
type ErrorCode string

const (
	// Validation errors
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrMissingField     ErrorCode = "MISSING_FIELD"
	ErrInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Secret store errors
	ErrSecretUnavailable ErrorCode = "SECRET_UNAVAILABLE"

	// Amazon API errors
	ErrTokenExchange     ErrorCode = "TOKEN_EXCHANGE_FAILED"
	ErrAuthFailed        ErrorCode = "AUTH_FAILED"
	ErrUpstreamFailed    ErrorCode = "UPSTREAM_FAILED"
	ErrUpstreamRateLimit ErrorCode = "UPSTREAM_RATE_LIMIT"
	ErrResponseParse     ErrorCode = "RESPONSE_PARSE_FAILED"
	ErrTransport         ErrorCode = "TRANSPORT_FAILED"

	// System errors
	ErrConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "LOW"
	SeverityMedium   ErrorSeverity = "MEDIUM"
	SeverityHigh     ErrorSeverity = "HIGH"
	SeverityCritical ErrorSeverity = "CRITICAL"
)

// AppError represents a structured application error with rich context
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Severity   ErrorSeverity          `json:"severity"`
	HTTPStatus int                    `json:"http_status"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Cause      error                  `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for Go 1.13+ error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds contextual information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails sets the details string and returns the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewError creates a new AppError with the given code and message
func NewError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Severity:   getDefaultSeverity(code),
		HTTPStatus: getDefaultHTTPStatus(code),
		Timestamp:  time.Now(),
	}
}

// NewErrorWithCause creates a new AppError wrapping an existing error
func NewErrorWithCause(code ErrorCode, message string, cause error) *AppError {
	appErr := NewError(code, message)
	appErr.Cause = cause
	return appErr
}

// NewValidationError creates a validation error with details
func NewValidationError(field, reason string) *AppError {
	return &AppError{
		Code:       ErrValidationFailed,
		Message:    fmt.Sprintf("Validation failed for field '%s'", field),
		Details:    reason,
		Severity:   SeverityLow,
		HTTPStatus: http.StatusBadRequest,
		Timestamp:  time.Now(),
	}
}

// NewSecretError reports a secret that could not be resolved
func NewSecretError(name, reason string, cause error) *AppError {
	return NewErrorWithCause(ErrSecretUnavailable, fmt.Sprintf("Secret %s unavailable", name), cause).
		WithDetails(reason).
		WithContext("secret_name", name)
}

// NewUpstreamError creates an Amazon API specific error from a non-success response
func NewUpstreamError(operation string, statusCode int, responseBody string) *AppError {
	var code ErrorCode
	var severity ErrorSeverity

	switch statusCode {
	case 400, 401, 403:
		code = ErrAuthFailed
		severity = SeverityHigh
	case 429:
		code = ErrUpstreamRateLimit
		severity = SeverityMedium
	case 500, 502, 503, 504:
		code = ErrUpstreamFailed
		severity = SeverityHigh
	default:
		code = ErrUpstreamFailed
		severity = SeverityMedium
	}

	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf("Amazon API %s failed", operation),
		Details:    fmt.Sprintf("HTTP %d: %s", statusCode, responseBody),
		Severity:   severity,
		HTTPStatus: getDefaultHTTPStatus(code),
		Context:    map[string]interface{}{"upstream_status": statusCode},
		Timestamp:  time.Now(),
	}
}

// Is reports whether err is an AppError carrying the given code
func Is(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// As extracts the AppError from an error chain
func As(err error) (*AppError, bool) {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

func getDefaultSeverity(code ErrorCode) ErrorSeverity {
	switch code {
	case ErrInvalidInput, ErrMissingField, ErrInvalidFormat, ErrValidationFailed:
		return SeverityLow
	case ErrConfigurationError, ErrSecretUnavailable:
		return SeverityCritical
	case ErrAuthFailed, ErrTokenExchange, ErrTransport:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// getDefaultHTTPStatus returns the default HTTP status code for an error code
func getDefaultHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrInvalidInput, ErrMissingField, ErrInvalidFormat, ErrValidationFailed, ErrTokenExchange, ErrAuthFailed:
		return http.StatusBadRequest
	case ErrUpstreamRateLimit:
		return http.StatusTooManyRequests
	case ErrUpstreamFailed, ErrResponseParse, ErrTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
