package secrets

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	apperrors "github.com/andretaki/amazon-ads-project2024/internal/errors"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
	"github.com/andretaki/amazon-ads-project2024/internal/logging"
)

// ErrSecretsUnavailable is the message returned when any secret is missing
const ErrSecretsUnavailable = "One or more required secrets could not be retrieved"

// Resolver reads the Login with Amazon credentials from a secret store
type Resolver struct {
	store  Store
	logger *logging.Logger
}

// NewResolver creates a resolver over the given store
func NewResolver(store Store, logger *logging.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve fetches every credential. Each secret is attempted even when an
// earlier one failed; the set is returned only when all three resolved.
func (r *Resolver) Resolve(ctx context.Context) (*amazon.CredentialSet, error) {
	values := make(map[string]string, len(amazon.SecretNames))
	var missing []string

	for _, name := range amazon.SecretNames {
		value, err := r.resolveOne(ctx, name)
		if err != nil {
			r.logger.ErrorFields("Error retrieving secret", err, zap.String("secret_name", name))
			missing = append(missing, name)
			continue
		}
		values[name] = value
	}

	if len(missing) > 0 {
		return nil, apperrors.NewError(apperrors.ErrSecretUnavailable, ErrSecretsUnavailable).
			WithContext("missing_secrets", missing)
	}

	creds := &amazon.CredentialSet{
		ClientSecret: values[amazon.SecretClientSecret],
		ClientID:     values[amazon.SecretClientID],
		RefreshToken: values[amazon.SecretRefreshToken],
	}
	if appErr := apperrors.NewValidator().ValidateStruct(creds).ToAppError(); appErr != nil {
		return nil, appErr
	}
	return creds, nil
}

// resolveOne reads the secret and extracts the field named after it
func (r *Resolver) resolveOne(ctx context.Context, name string) (string, error) {
	doc, err := r.store.Lookup(ctx, name)
	if err != nil {
		return "", apperrors.NewSecretError(name, "lookup failed", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		return "", apperrors.NewSecretError(name, "stored value is not valid JSON", err)
	}

	raw, ok := fields[name]
	if !ok {
		return "", apperrors.NewSecretError(name, name+" not found in secret document", nil)
	}

	value, ok := raw.(string)
	if !ok || value == "" {
		return "", apperrors.NewSecretError(name, name+" is not a non-empty string", nil)
	}
	return value, nil
}

// Handle is the fetch-secrets function. It returns the credentials as a
// string-encoded JSON body, or a 500 envelope when any secret is unavailable.
func (r *Resolver) Handle(ctx context.Context) event.Response {
	log := r.logger.WithInvocation(ctx)

	creds, err := r.Resolve(ctx)
	if err != nil {
		log.ErrorFields("Exception resolving secrets", err)
		return errorResponse(err)
	}

	body, err := json.Marshal(creds)
	if err != nil {
		log.ErrorFields("Failed to encode credentials", err)
		return errorResponse(err)
	}

	log.InfoFields("Secrets resolved",
		zap.String("client_id", logging.Redact(creds.ClientID)),
	)
	return event.Response{
		StatusCode: http.StatusOK,
		Body:       string(body),
	}
}

func errorResponse(err error) event.Response {
	message := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
	}
	body, _ := json.Marshal(map[string]string{"error": message})
	return event.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
	}
}
