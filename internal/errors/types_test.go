package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError_Defaults(t *testing.T) {
	tests := []struct {
		code             ErrorCode
		expectedStatus   int
		expectedSeverity ErrorSeverity
	}{
		{ErrInvalidInput, http.StatusBadRequest, SeverityLow},
		{ErrMissingField, http.StatusBadRequest, SeverityLow},
		{ErrValidationFailed, http.StatusBadRequest, SeverityLow},
		{ErrTokenExchange, http.StatusBadRequest, SeverityHigh},
		{ErrAuthFailed, http.StatusBadRequest, SeverityHigh},
		{ErrUpstreamRateLimit, http.StatusTooManyRequests, SeverityMedium},
		{ErrUpstreamFailed, http.StatusBadGateway, SeverityMedium},
		{ErrResponseParse, http.StatusBadGateway, SeverityMedium},
		{ErrTransport, http.StatusBadGateway, SeverityHigh},
		{ErrSecretUnavailable, http.StatusInternalServerError, SeverityCritical},
		{ErrConfigurationError, http.StatusInternalServerError, SeverityCritical},
		{ErrInternalServer, http.StatusInternalServerError, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewError(tt.code, "message")
			assert.Equal(t, tt.expectedStatus, err.HTTPStatus)
			assert.Equal(t, tt.expectedSeverity, err.Severity)
			assert.False(t, err.Timestamp.IsZero())
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewErrorWithCause(ErrTransport, "POST /auth/o2/token failed", cause)

	assert.Equal(t, "TRANSPORT_FAILED: POST /auth/o2/token failed (caused by: dial tcp: connection refused)", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "MISSING_FIELD: x", NewError(ErrMissingField, "x").Error())
}

func TestNewUpstreamError(t *testing.T) {
	tests := []struct {
		status           int
		expectedCode     ErrorCode
		expectedSeverity ErrorSeverity
	}{
		{400, ErrAuthFailed, SeverityHigh},
		{401, ErrAuthFailed, SeverityHigh},
		{403, ErrAuthFailed, SeverityHigh},
		{429, ErrUpstreamRateLimit, SeverityMedium},
		{500, ErrUpstreamFailed, SeverityHigh},
		{503, ErrUpstreamFailed, SeverityHigh},
		{404, ErrUpstreamFailed, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP %d", tt.status), func(t *testing.T) {
			err := NewUpstreamError("token exchange", tt.status, `{"error":"x"}`)
			assert.Equal(t, tt.expectedCode, err.Code)
			assert.Equal(t, tt.expectedSeverity, err.Severity)
			assert.Equal(t, "Amazon API token exchange failed", err.Message)
			assert.Equal(t, fmt.Sprintf(`HTTP %d: {"error":"x"}`, tt.status), err.Details)
			assert.Equal(t, tt.status, err.Context["upstream_status"])
		})
	}
}

func TestNewSecretError(t *testing.T) {
	cause := errors.New("AccessDeniedException")
	err := NewSecretError("client_id", "lookup failed", cause)

	assert.Equal(t, ErrSecretUnavailable, err.Code)
	assert.Equal(t, "Secret client_id unavailable", err.Message)
	assert.Equal(t, "lookup failed", err.Details)
	assert.Equal(t, "client_id", err.Context["secret_name"])
	assert.Equal(t, cause, err.Cause)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("client_id", "must be a string")
	assert.Equal(t, ErrValidationFailed, err.Code)
	assert.Equal(t, "Validation failed for field 'client_id'", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestIsAndAs(t *testing.T) {
	appErr := NewError(ErrTokenExchange, "no token")
	wrapped := fmt.Errorf("exchange: %w", appErr)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, appErr, got)
	assert.True(t, Is(wrapped, ErrTokenExchange))
	assert.False(t, Is(wrapped, ErrAuthFailed))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
	_, ok = As(nil)
	assert.False(t, ok)
	assert.False(t, Is(nil, ErrTokenExchange))
}
