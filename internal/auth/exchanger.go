package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	apperrors "github.com/andretaki/amazon-ads-project2024/internal/errors"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
	"github.com/andretaki/amazon-ads-project2024/internal/logging"
)

// Response bodies of the get-access-token function
const (
	MsgMissingValues = "Missing required values"
	MsgNoAccessToken = "Unable to retrieve access token"
)

// TokenExchanger trades a refresh token for an access token
type TokenExchanger interface {
	Exchange(ctx context.Context, creds amazon.CredentialSet) (string, error)
}

// Verify that TokenClient implements TokenExchanger interface
var _ TokenExchanger = (*TokenClient)(nil)

// Exchanger is the get-access-token function
type Exchanger struct {
	tokens TokenExchanger
	logger *logging.Logger
}

// NewExchanger creates the function over a token exchanger
func NewExchanger(tokens TokenExchanger, logger *logging.Logger) *Exchanger {
	return &Exchanger{tokens: tokens, logger: logger}
}

// credentialsFromEvent extracts the three credentials, requiring each to be a
// non-empty string
func credentialsFromEvent(evt event.Event) (*amazon.CredentialSet, *apperrors.AppError) {
	body, err := evt.DecodeBody()
	if err != nil {
		return nil, apperrors.NewErrorWithCause(apperrors.ErrInvalidFormat, "Invalid JSON format in event 'body'", err)
	}

	v := apperrors.NewValidator()
	creds := &amazon.CredentialSet{}
	var ok bool
	if creds.RefreshToken, ok = event.NonEmptyString(body, amazon.SecretRefreshToken); !ok {
		v.AddError(amazon.SecretRefreshToken, "required", "Field is required")
	}
	if creds.ClientID, ok = event.NonEmptyString(body, amazon.SecretClientID); !ok {
		v.AddError(amazon.SecretClientID, "required", "Field is required")
	}
	if creds.ClientSecret, ok = event.NonEmptyString(body, amazon.SecretClientSecret); !ok {
		v.AddError(amazon.SecretClientSecret, "required", "Field is required")
	}

	if appErr := v.ToAppError(); appErr != nil {
		appErr.Code = apperrors.ErrMissingField
		return nil, appErr
	}
	return creds, nil
}

// Handle validates the credentials and performs the exchange. Failures never
// escape as errors: they become 400 envelopes.
func (x *Exchanger) Handle(ctx context.Context, evt event.Event) event.Response {
	log := x.logger.WithInvocation(ctx)
	log.InfoFields("Event received", zap.Bool("string_body", evt.IsStringBody()))

	creds, appErr := credentialsFromEvent(evt)
	if appErr != nil {
		log.ErrorFields("Required values are missing in the event payload", appErr,
			zap.String("details", appErr.Details))
		return event.Response{StatusCode: http.StatusBadRequest, Body: MsgMissingValues}
	}

	accessToken, err := x.tokens.Exchange(ctx, *creds)
	if err != nil {
		fields := []zap.Field{zap.String("client_id", logging.Redact(creds.ClientID))}
		if appErr, ok := apperrors.As(err); ok {
			fields = append(fields, zap.String("error_code", string(appErr.Code)), zap.String("details", appErr.Details))
		}
		log.ErrorFields("Error fetching access token", err, fields...)
		return event.Response{StatusCode: http.StatusBadRequest, Body: MsgNoAccessToken}
	}

	log.InfoFields("Access token obtained", zap.String("client_id", logging.Redact(creds.ClientID)))
	return event.Response{
		StatusCode: http.StatusOK,
		Body: amazon.AccessTokenResult{
			AccessToken: accessToken,
			ClientID:    creds.ClientID,
		},
	}
}
