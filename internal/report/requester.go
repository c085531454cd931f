package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	"github.com/andretaki/amazon-ads-project2024/internal/config"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
	"github.com/andretaki/amazon-ads-project2024/internal/logging"
)

// Error messages of the send-report-request function
const (
	MsgInvalidBody      = "Invalid JSON format in event 'body'"
	MsgInvalidCredTypes = "client_id or access_token is not a string."
)

// Result is the bare output of the report function
type Result struct {
	ReportRequest interface{} `json:"report_request"`
	ClientID      string      `json:"client_id"`
	AccessToken   string      `json:"access_token"`
}

// Requester submits campaign report requests
type Requester struct {
	sender       amazon.Sender
	baseURL      string
	profileID    string
	lookbackDays int
	now          func() time.Time
	logger       *logging.Logger
}

// NewRequester creates a requester from the Amazon and report settings
func NewRequester(sender amazon.Sender, amazonCfg config.AmazonConfig, reportCfg config.ReportConfig, logger *logging.Logger) *Requester {
	lookback := reportCfg.LookbackDays
	if lookback <= 0 {
		lookback = config.DefaultLookbackDays
	}
	return &Requester{
		sender:       sender,
		baseURL:      amazonCfg.AdsBaseURL,
		profileID:    amazonCfg.ProfileID,
		lookbackDays: lookback,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock replaces the time source, used to pin the date range
func (r *Requester) WithClock(now func() time.Time) *Requester {
	r.now = now
	return r
}

// Payload returns the encoded report definition for the current day
func (r *Requester) Payload() ([]byte, error) {
	start, end := DateRange(r.now(), r.lookbackDays)
	return json.Marshal(NewCampaignPayload(start, end))
}

// Submit posts the report request. Provider response bodies are passed through
// verbatim; parse and transport failures become error results in report_request.
func (r *Requester) Submit(ctx context.Context, clientID, accessToken string) Result {
	result := Result{ClientID: clientID, AccessToken: accessToken}
	log := r.logger.With(zap.String("client_id", logging.Redact(clientID)))

	payload, err := r.Payload()
	if err != nil {
		result.ReportRequest = event.NewErrorResult(fmt.Sprintf("Failed to encode report request: %v", err))
		return result
	}

	resp, err := r.sender.Send(ctx, &amazon.Request{
		Method:  http.MethodPost,
		URL:     amazon.JoinURL(r.baseURL, amazon.ReportsPath),
		Headers: Headers(clientID, accessToken, r.profileID),
		Body:    payload,
	})
	if err != nil {
		log.ErrorFields("Failed to send report request", err)
		result.ReportRequest = event.NewErrorResult(fmt.Sprintf("Failed to send report request: %v", err))
		return result
	}

	log.InfoFields("Response data",
		zap.Int("status_code", resp.StatusCode),
		zap.ByteString("body", resp.Body),
	)

	var data json.RawMessage
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		log.ErrorFields("Failed to parse JSON", err)
		result.ReportRequest = event.NewErrorResult(fmt.Sprintf("Failed to parse JSON: %v", err))
		return result
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.WarnFields("Report request rejected", zap.Int("status_code", resp.StatusCode))
	}

	result.ReportRequest = data
	return result
}

// Handle is the send-report-request function. It returns either an
// event.ErrorResult or a Result, never a status-code envelope.
func (r *Requester) Handle(ctx context.Context, evt event.Event) interface{} {
	log := r.logger.WithInvocation(ctx)
	log.InfoFields("Received event", zap.Bool("string_body", evt.IsStringBody()))

	body, err := evt.DecodeBody()
	if err != nil {
		log.ErrorFields("Error parsing 'body' from event", err)
		return event.NewErrorResult(MsgInvalidBody)
	}

	clientID, clientOK := event.StringField(body, "client_id")
	accessToken, tokenOK := event.StringField(body, "access_token")
	if !clientOK || !tokenOK {
		log.ErrorFields(MsgInvalidCredTypes, nil,
			zap.String("client_id_type", fmt.Sprintf("%T", body["client_id"])),
			zap.String("access_token_type", fmt.Sprintf("%T", body["access_token"])),
		)
		return event.NewErrorResult(MsgInvalidCredTypes)
	}

	return r.Submit(ctx, clientID, accessToken)
}
