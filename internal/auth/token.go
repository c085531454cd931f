package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	apperrors "github.com/andretaki/amazon-ads-project2024/internal/errors"
)

// TokenClient performs the Login with Amazon refresh-token grant
type TokenClient struct {
	sender  amazon.Sender
	baseURL string
}

// NewTokenClient creates a token client for the given auth host
func NewTokenClient(sender amazon.Sender, baseURL string) *TokenClient {
	return &TokenClient{sender: sender, baseURL: baseURL}
}

// tokenForm encodes the refresh-token grant parameters
func tokenForm(creds amazon.CredentialSet) []byte {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", creds.RefreshToken)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	return []byte(form.Encode())
}

// Exchange trades the refresh token for an access token
func (c *TokenClient) Exchange(ctx context.Context, creds amazon.CredentialSet) (string, error) {
	resp, err := c.sender.Send(ctx, &amazon.Request{
		Method: http.MethodPost,
		URL:    amazon.JoinURL(c.baseURL, amazon.TokenPath),
		Headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
		},
		Body: tokenForm(creds),
	})
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewUpstreamError("token exchange", resp.StatusCode, string(resp.Body))
	}

	var token amazon.TokenResponse
	if err := json.Unmarshal(resp.Body, &token); err != nil {
		return "", apperrors.NewErrorWithCause(apperrors.ErrResponseParse, "Failed to parse token response", err)
	}

	if token.AccessToken == "" {
		return "", apperrors.NewError(apperrors.ErrTokenExchange, "Token response has no access_token").
			WithDetails(string(resp.Body))
	}

	return token.AccessToken, nil
}
