// Package gateway exposes the pipeline functions over HTTP for local runs.
// Each route invokes exactly one function and returns its output unchanged;
// chaining stays with the caller.
package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/andretaki/amazon-ads-project2024/internal/event"
)

// SecretFunction is the fetch-secrets function
type SecretFunction interface {
	Handle(ctx context.Context) event.Response
}

// TokenFunction is the get-access-token function
type TokenFunction interface {
	Handle(ctx context.Context, evt event.Event) event.Response
}

// ReportFunction is the send-report-request function
type ReportFunction interface {
	Handle(ctx context.Context, evt event.Event) interface{}
}

// FunctionHandler routes HTTP requests to the pipeline functions
type FunctionHandler struct {
	secrets SecretFunction
	tokens  TokenFunction
	reports ReportFunction
}

// NewFunctionHandler creates a handler over the three functions
func NewFunctionHandler(secrets SecretFunction, tokens TokenFunction, reports ReportFunction) *FunctionHandler {
	return &FunctionHandler{secrets: secrets, tokens: tokens, reports: reports}
}

// Register mounts the function routes on the app
func (h *FunctionHandler) Register(router fiber.Router) {
	router.Post("/fetch-secrets", h.HandleFetchSecrets)
	router.Post("/get-access-token", h.HandleGetAccessToken)
	router.Post("/send-report-request", h.HandleSendReportRequest)
}

// HandleFetchSecrets invokes the secret resolver. The request body is ignored.
func (h *FunctionHandler) HandleFetchSecrets(c *fiber.Ctx) error {
	return c.JSON(h.secrets.Handle(c.UserContext()))
}

// HandleGetAccessToken invokes the token exchanger with the posted event
func (h *FunctionHandler) HandleGetAccessToken(c *fiber.Ctx) error {
	evt, err := parseEvent(c)
	if err != nil {
		return err
	}
	return c.JSON(h.tokens.Handle(c.UserContext(), evt))
}

// HandleSendReportRequest invokes the report requester with the posted event
func (h *FunctionHandler) HandleSendReportRequest(c *fiber.Ctx) error {
	evt, err := parseEvent(c)
	if err != nil {
		return err
	}
	return c.JSON(h.reports.Handle(c.UserContext(), evt))
}

// parseEvent decodes the request body as an invocation event. An empty body
// is an event without a body.
func parseEvent(c *fiber.Ctx) (event.Event, error) {
	var evt event.Event
	raw := c.Body()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return evt, nil
	}
	if err := json.Unmarshal(raw, &evt); err != nil {
		return evt, fiber.NewError(fiber.StatusBadRequest, "Invalid JSON payload")
	}
	return evt, nil
}
