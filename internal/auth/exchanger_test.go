package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andretaki/amazon-ads-project2024/internal/amazon"
	"github.com/andretaki/amazon-ads-project2024/internal/amazon/amazontest"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
	"github.com/andretaki/amazon-ads-project2024/internal/logging"
)

const testAuthURL = "https://api.amazon.com"

func newTestExchanger(transport *amazontest.Transport) *Exchanger {
	client := amazon.NewClientWithHTTP(transport.Client())
	return NewExchanger(NewTokenClient(client, testAuthURL), logging.NewNop())
}

func credentialsBody(t *testing.T, fields map[string]interface{}) event.Event {
	t.Helper()
	doc, err := json.Marshal(fields)
	require.NoError(t, err)
	return event.BodyString(string(doc))
}

func TestExchanger_Handle_Success(t *testing.T) {
	transport := amazontest.NewTransport(200, `{"access_token":"abc123","refresh_token":"Atzr|refresh","token_type":"bearer","expires_in":3600}`)
	exchanger := newTestExchanger(transport)

	resp := exchanger.Handle(context.Background(), credentialsBody(t, map[string]interface{}{
		"refresh_token": "Atzr|refresh",
		"client_id":     "amzn1.client",
		"client_secret": "shh",
	}))

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, amazon.AccessTokenResult{AccessToken: "abc123", ClientID: "amzn1.client"}, resp.Body)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"body":{"access_token":"abc123","client_id":"amzn1.client"}}`, string(encoded))

	require.Equal(t, 1, transport.CallCount())
	req := transport.Requests()[0]
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.amazon.com/auth/o2/token", req.URL)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))

	form, err := url.ParseQuery(string(req.Body))
	require.NoError(t, err)
	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "Atzr|refresh", form.Get("refresh_token"))
	assert.Equal(t, "amzn1.client", form.Get("client_id"))
	assert.Equal(t, "shh", form.Get("client_secret"))
	assert.Equal(t, 1, transport.CloseCount())
}

func TestExchanger_Handle_ObjectBody(t *testing.T) {
	transport := amazontest.NewTransport(200, `{"access_token":"abc123"}`)
	exchanger := newTestExchanger(transport)

	evt, err := event.BodyObject(map[string]string{
		"refresh_token": "r",
		"client_id":     "c",
		"client_secret": "s",
	})
	require.NoError(t, err)

	resp := exchanger.Handle(context.Background(), evt)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestExchanger_Handle_MissingValues(t *testing.T) {
	complete := map[string]interface{}{
		"refresh_token": "Atzr|refresh",
		"client_id":     "amzn1.client",
		"client_secret": "shh",
	}

	tests := []struct {
		name string
		evt  func(t *testing.T) event.Event
	}{
		{name: "missing refresh_token", evt: func(t *testing.T) event.Event { return credentialsBody(t, without(complete, "refresh_token")) }},
		{name: "missing client_id", evt: func(t *testing.T) event.Event { return credentialsBody(t, without(complete, "client_id")) }},
		{name: "missing client_secret", evt: func(t *testing.T) event.Event { return credentialsBody(t, without(complete, "client_secret")) }},
		{name: "missing all", evt: func(t *testing.T) event.Event { return credentialsBody(t, map[string]interface{}{}) }},
		{name: "empty client_id", evt: func(t *testing.T) event.Event { return credentialsBody(t, with(complete, "client_id", "")) }},
		{name: "null refresh_token", evt: func(t *testing.T) event.Event { return credentialsBody(t, with(complete, "refresh_token", nil)) }},
		{name: "false client_secret", evt: func(t *testing.T) event.Event { return credentialsBody(t, with(complete, "client_secret", false)) }},
		{name: "numeric client_id", evt: func(t *testing.T) event.Event { return credentialsBody(t, with(complete, "client_id", 123)) }},
		{name: "no body", evt: func(t *testing.T) event.Event { return event.Event{} }},
		{name: "invalid JSON body", evt: func(t *testing.T) event.Event { return event.BodyString("{not json") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := amazontest.NewTransport(200, `{"access_token":"abc123"}`)
			exchanger := newTestExchanger(transport)

			resp := exchanger.Handle(context.Background(), tt.evt(t))

			assert.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, "Missing required values", resp.Body)
			assert.Equal(t, 0, transport.CallCount(), "no network call when values are missing")
		})
	}
}

func TestExchanger_Handle_TokenFailures(t *testing.T) {
	tests := []struct {
		name      string
		transport *amazontest.Transport
	}{
		{name: "unauthorized", transport: amazontest.NewTransport(401, `{"error":"invalid_client","error_description":"Client authentication failed"}`)},
		{name: "invalid grant", transport: amazontest.NewTransport(400, `{"error":"invalid_grant"}`)},
		{name: "server error with HTML", transport: amazontest.NewTransport(503, `<html>unavailable</html>`)},
		{name: "200 without access_token", transport: amazontest.NewTransport(200, `{"token_type":"bearer"}`)},
		{name: "200 with empty access_token", transport: amazontest.NewTransport(200, `{"access_token":""}`)},
		{name: "200 with invalid JSON", transport: amazontest.NewTransport(200, `not-json`)},
		{name: "200 with non-string access_token", transport: amazontest.NewTransport(200, `{"access_token":42}`)},
		{name: "transport exception", transport: amazontest.NewFailingTransport(errors.New("tls: handshake failure"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exchanger := newTestExchanger(tt.transport)

			resp := exchanger.Handle(context.Background(), credentialsBody(t, map[string]interface{}{
				"refresh_token": "r",
				"client_id":     "c",
				"client_secret": "s",
			}))

			assert.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, "Unable to retrieve access token", resp.Body)
			assert.Equal(t, 1, tt.transport.CallCount())
		})
	}
}

func without(m map[string]interface{}, key string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func with(m map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := without(m, key)
	out[key] = value
	return out
}
