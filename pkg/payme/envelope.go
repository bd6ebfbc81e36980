package payme

import (
	"bytes"
	"encoding/json"
)

// Version is the value of the "jsonrpc" member in every response.
const Version = "2.0"

// Request is a decoded inbound call.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	// ID is echoed back verbatim; nil encodes as null.
	ID json.RawMessage `json:"id"`
}

// Response is the outbound envelope. Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// DecodeRequest parses a request body. A body that is not a JSON object yields
// ErrParse; a missing method yields ErrInvalidRequest naming "method".
func DecodeRequest(body []byte) (*Request, *Error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		return nil, ErrParse
	}
	if req.Method == "" {
		return &req, ErrInvalidRequest.WithData("method")
	}
	return &req, nil
}

// ExtractID pulls the correlation id out of a body without validating
// anything else. It returns nil when the body is unreadable.
func ExtractID(body []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	return probe.ID
}

// NewResult wraps a result payload.
func NewResult(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: Version, Result: result, ID: id}
}

// NewError wraps a protocol error.
func NewError(id json.RawMessage, err *Error) *Response {
	if err == nil {
		err = ErrSystem
	}
	return &Response{JSONRPC: Version, Error: err, ID: id}
}
