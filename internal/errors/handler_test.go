package errors

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andretaki/amazon-ads-project2024/internal/logging"
)

func createTestApp(handler *Handler, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handler.FiberErrorHandler()})
	app.Get("/fail", func(c *fiber.Ctx) error { return err })
	return app
}

func doRequest(t *testing.T, app *fiber.App, headers map[string]string) (int, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("GET", "/fail", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestHandler_HandleError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    ErrorCode
		expectedMessage string
	}{
		{
			name:            "validation error keeps message",
			err:             NewValidationError("client_id", "required"),
			expectedStatus:  400,
			expectedCode:    ErrValidationFailed,
			expectedMessage: "Validation failed for field 'client_id'",
		},
		{
			name:            "fiber error keeps status",
			err:             fiber.NewError(fiber.StatusNotFound, "Cannot GET /x"),
			expectedStatus:  404,
			expectedCode:    ErrInvalidInput,
			expectedMessage: "Cannot GET /x",
		},
		{
			name:            "secret error is sanitized",
			err:             NewSecretError("client_secret", "AccessDenied arn:aws:secretsmanager:...", nil),
			expectedStatus:  500,
			expectedCode:    ErrSecretUnavailable,
			expectedMessage: "Required secrets unavailable",
		},
		{
			name:            "timeout classified as transport",
			err:             errors.New("context deadline exceeded"),
			expectedStatus:  502,
			expectedCode:    ErrTransport,
			expectedMessage: "Request timeout",
		},
		{
			name:            "connection refused classified as transport",
			err:             errors.New("dial tcp 127.0.0.1:443: connection refused"),
			expectedStatus:  502,
			expectedCode:    ErrTransport,
			expectedMessage: "Upstream unreachable",
		},
		{
			name:            "json error classified as format",
			err:             errors.New("invalid character 'x' looking for beginning of value"),
			expectedStatus:  400,
			expectedCode:    ErrInvalidFormat,
			expectedMessage: "Invalid JSON payload",
		},
		{
			name:            "unknown error is internal",
			err:             errors.New("boom"),
			expectedStatus:  500,
			expectedCode:    ErrInternalServer,
			expectedMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createTestApp(NewHandler(logging.NewNop()), tt.err)

			status, out := doRequest(t, app, nil)

			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, out.Code)
			assert.Equal(t, tt.expectedMessage, out.Error)
			assert.NotEmpty(t, out.Timestamp)
		})
	}
}

func TestHandler_SanitizesSensitiveDetails(t *testing.T) {
	err := NewUpstreamError("token exchange", 401, `{"error":"invalid_client"}`)

	_, out := doRequest(t, createTestApp(NewHandler(logging.NewNop()), err), nil)
	assert.Equal(t, "Unable to authenticate with Amazon", out.Error)
	assert.Empty(t, out.Details)
	assert.Nil(t, out.Context)

	_, dev := doRequest(t, createTestApp(NewDevelopmentHandler(logging.NewNop()), err), nil)
	assert.Equal(t, "Amazon API token exchange failed", dev.Error)
	assert.Equal(t, `HTTP 401: {"error":"invalid_client"}`, dev.Details)
}

func TestHandler_RequestID(t *testing.T) {
	app := createTestApp(NewHandler(nil), NewError(ErrMissingField, "missing"))

	_, out := doRequest(t, app, map[string]string{"X-Request-ID": "req-1"})
	assert.Equal(t, "req-1", out.RequestID)

	_, out = doRequest(t, app, map[string]string{"X-Correlation-ID": "corr-1"})
	assert.Equal(t, "corr-1", out.RequestID)
}

func TestHandler_HandleErrorNil(t *testing.T) {
	assert.NoError(t, NewHandler(nil).HandleError(nil, nil))
}
