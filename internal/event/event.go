// Package event defines the invocation envelope shared by the pipeline
// functions. An event's body arrives either as a JSON-encoded string or as an
// already-decoded JSON object, depending on which stage produced it.
package event

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatusError is the status value carried by every structured error result
const StatusError = "ERROR"

// Event is the input of every pipeline function
type Event struct {
	Body json.RawMessage `json:"body,omitempty"`
}

// Response is the {statusCode, body} envelope returned by the secret and token
// functions. Body is either a string or a JSON object.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Body       interface{} `json:"body"`
}

// ErrorResult is the structured error object of the report function
type ErrorResult struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// NewErrorResult builds an ErrorResult with the ERROR status
func NewErrorResult(message string) ErrorResult {
	return ErrorResult{Error: message, Status: StatusError}
}

// BodyString wraps a JSON document as a string-encoded event body
func BodyString(doc string) Event {
	encoded, _ := json.Marshal(doc)
	return Event{Body: encoded}
}

// BodyObject wraps a value as an object-encoded event body
func BodyObject(v interface{}) (Event, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return Event{}, err
	}
	return Event{Body: encoded}, nil
}

// IsStringBody reports whether the body was sent as a JSON string
func (e Event) IsStringBody() bool {
	trimmed := bytes.TrimSpace(e.Body)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// DecodeBody returns the body as a JSON object. A missing body decodes to an
// empty object. A string body is parsed as JSON; anything that does not yield a
// JSON object is an error.
func (e Event) DecodeBody() (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(e.Body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]interface{}{}, nil
	}

	doc := trimmed
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("body is not a valid JSON string: %w", err)
		}
		doc = []byte(inner)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(doc, &body); err != nil {
		return nil, fmt.Errorf("body is not a JSON object: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("body is not a JSON object: null")
	}
	return body, nil
}

// StringField returns the value stored under key when it is a string
func StringField(body map[string]interface{}, key string) (string, bool) {
	value, ok := body[key].(string)
	return value, ok
}

// NonEmptyString returns the value stored under key when it is a non-empty string
func NonEmptyString(body map[string]interface{}, key string) (string, bool) {
	value, ok := StringField(body, key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
