package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrTransport marks failures where no usable HTTP response arrived.
var ErrTransport = errors.New("Request failed")

// TransportError wraps a connectivity failure or timeout.
type TransportError struct {
	Endpoint string
	Timeout  bool
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransport.Error(), e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// FieldError holds the validation messages the backend reported for one field.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
	// Fields keeps the order in which the backend listed them.
	Fields []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Lines renders field errors as "field: msg1, msg2". Without field errors it
// returns the message alone.
func (e *APIError) Lines() []string {
	if len(e.Fields) == 0 {
		return []string{e.Message}
	}
	lines := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		lines = append(lines, f.Field+": "+strings.Join(f.Messages, ", "))
	}
	return lines
}

// SchemaError means a 2xx body did not have the shape the endpoint promises.
type SchemaError struct {
	Endpoint string
	Schema   string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected response from %s (schema %s): %s",
		e.Endpoint, e.Schema, strings.Join(e.Problems, "; "))
}

// parseAPIError builds an APIError from a failed response body. Message
// prefers "message", then "error", then the fallback.
func parseAPIError(status int, body []byte, fallback string) *APIError {
	apiErr := &APIError{Status: status, Message: fallback}

	var envelope struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}
	switch {
	case envelope.Message != "":
		apiErr.Message = envelope.Message
	case len(envelope.Error) > 0:
		var s string
		if json.Unmarshal(envelope.Error, &s) == nil && s != "" {
			apiErr.Message = s
		}
	}
	if len(envelope.Errors) > 0 {
		apiErr.Fields = orderedFieldErrors(envelope.Errors)
	}
	return apiErr
}

// orderedFieldErrors reads {"field": ["msg", ...]} keeping key order. A bare
// string value counts as a single message.
func orderedFieldErrors(raw json.RawMessage) []FieldError {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var out []FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return out
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return out
		}
		var msgs []string
		if json.Unmarshal(value, &msgs) != nil {
			var single string
			if json.Unmarshal(value, &single) != nil {
				continue
			}
			msgs = []string{single}
		}
		out = append(out, FieldError{Field: key, Messages: msgs})
	}
	return out
}
