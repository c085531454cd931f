package errors

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/andretaki/amazon-ads-project2024/internal/logging"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      ErrorCode              `json:"code"`
	Details   string                 `json:"details,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// Handler provides centralized error handling for the local gateway
type Handler struct {
	// Include sensitive details in responses (dev mode)
	IncludeSensitiveDetails bool

	logger *logging.Logger
}

// NewHandler creates a new error handler with default configuration
func NewHandler(logger *logging.Logger) *Handler {
	return &Handler{
		IncludeSensitiveDetails: false,
		logger:                  logger,
	}
}

// NewDevelopmentHandler creates an error handler for development with more verbose output
func NewDevelopmentHandler(logger *logging.Logger) *Handler {
	return &Handler{
		IncludeSensitiveDetails: true,
		logger:                  logger,
	}
}

// HandleError processes an error and returns an appropriate HTTP response
func (h *Handler) HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	appErr := h.toAppError(err)

	requestID := c.Get("X-Request-ID")
	if requestID == "" {
		requestID = c.Get("X-Correlation-ID")
	}

	h.logError(appErr, requestID, c)

	response := h.createErrorResponse(appErr, requestID)
	return c.Status(appErr.HTTPStatus).JSON(response)
}

// toAppError converts any error to an AppError
func (h *Handler) toAppError(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		appErr := NewErrorWithCause(ErrInvalidInput, fiberErr.Message, err)
		appErr.HTTPStatus = fiberErr.Code
		return appErr
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "context deadline exceeded") || strings.Contains(errStr, "timeout"):
		return NewErrorWithCause(ErrTransport, "Request timeout", err)
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host"):
		return NewErrorWithCause(ErrTransport, "Upstream unreachable", err)
	case strings.Contains(errStr, "invalid character") || strings.Contains(errStr, "unmarshal"):
		return NewErrorWithCause(ErrInvalidFormat, "Invalid JSON payload", err)
	default:
		return NewErrorWithCause(ErrInternalServer, "Internal server error", err)
	}
}

// createErrorResponse creates a standardized error response
func (h *Handler) createErrorResponse(appErr *AppError, requestID string) ErrorResponse {
	response := ErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		RequestID: requestID,
		Timestamp: appErr.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}

	if h.shouldIncludeDetails(appErr) {
		response.Details = appErr.Details
		response.Context = appErr.Context
	}

	if !h.IncludeSensitiveDetails {
		response = h.sanitizeResponse(response, appErr)
	}

	return response
}

// shouldIncludeDetails determines if error details should be included
func (h *Handler) shouldIncludeDetails(appErr *AppError) bool {
	if appErr.HTTPStatus >= 400 && appErr.HTTPStatus < 500 {
		return true
	}
	return h.IncludeSensitiveDetails || appErr.Severity == SeverityLow
}

// sanitizeResponse removes sensitive information from error responses
func (h *Handler) sanitizeResponse(response ErrorResponse, appErr *AppError) ErrorResponse {
	safeMessages := map[ErrorCode]string{
		ErrAuthFailed:         "Unable to authenticate with Amazon",
		ErrTokenExchange:      "Unable to retrieve access token",
		ErrSecretUnavailable:  "Required secrets unavailable",
		ErrInternalServer:     "Internal server error",
		ErrConfigurationError: "Service configuration error",
	}

	if safeMsg, exists := safeMessages[appErr.Code]; exists {
		response.Error = safeMsg
		response.Details = ""
		response.Context = nil
	}

	return response
}

// logError logs the error with appropriate context and level
func (h *Handler) logError(appErr *AppError, requestID string, c *fiber.Ctx) {
	if h.logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("error_code", string(appErr.Code)),
		zap.String("severity", string(appErr.Severity)),
		zap.Int("http_status", appErr.HTTPStatus),
	}

	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	if c != nil {
		fields = append(fields,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
	}

	for key, value := range appErr.Context {
		fields = append(fields, zap.Any(key, value))
	}

	switch appErr.Severity {
	case SeverityLow:
		h.logger.InfoFields(appErr.Message, fields...)
	case SeverityMedium:
		h.logger.WarnFields(appErr.Message, fields...)
	default:
		h.logger.ErrorFields(appErr.Message, appErr.Cause, fields...)
	}
}

// FiberErrorHandler creates a Fiber-compatible error handler
func (h *Handler) FiberErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return h.HandleError(c, err)
	}
}
