package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError is one entry of a server validation map, in server order.
type FieldError struct {
	Field    string
	Messages []string
}

// APIError is returned for non-2xx replies and for transport failures
// (Status 0, Err set).
type APIError struct {
	Endpoint string
	Status   int
	Body     []byte
	// Message is the body's "error" (or "message") field.
	Message string
	// Fields is the body's "errors" validation map.
	Fields []FieldError
	Err    error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil && e.Status == 0:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: http %d: %v", e.Endpoint, e.Status, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: http %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: http %d", e.Endpoint, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// HasValidation reports whether the server sent a field-level error map.
func (e *APIError) HasValidation() bool { return len(e.Fields) > 0 }

// ValidationMessage flattens the field map into one string joined by ", ".
func (e *APIError) ValidationMessage() string {
	var msgs []string
	for _, f := range e.Fields {
		msgs = append(msgs, f.Messages...)
	}
	return strings.Join(msgs, ", ")
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	e := &APIError{Endpoint: endpoint, Status: status, Body: body}
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return e
	}
	var msg string
	if len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &msg) == nil {
		e.Message = msg
	}
	if e.Message == "" {
		e.Message = envelope.Message
	}
	if len(envelope.Errors) > 0 {
		e.Fields = parseFieldErrors(envelope.Errors)
	}
	return e
}

// parseFieldErrors walks the object token by token to keep the server's key
// order. Values may be a string or a list of strings.
func parseFieldErrors(raw json.RawMessage) []FieldError {
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
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return out
		}
		fe := FieldError{Field: key}
		var one string
		var many []string
		switch {
		case json.Unmarshal(val, &many) == nil:
			fe.Messages = many
		case json.Unmarshal(val, &one) == nil:
			fe.Messages = []string{one}
		default:
			continue
		}
		out = append(out, fe)
	}
	return out
}
