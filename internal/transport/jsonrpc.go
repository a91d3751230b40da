package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes. Tool failures with a stable API code answer
// ErrInvalidParams, except UNKNOWN_METHOD which answers ErrMethodNotFound.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

const rpcVersion = "2.0"

var (
	errParse          = errors.New("parse error")
	errInvalidRequest = errors.New("invalid request")
)

// codedError is implemented by tool errors that carry a stable API code.
type codedError interface {
	error
	CodeValue() string
	MessageValue() string
	DetailsValue() any
	RecoveryHintValue() string
}

// Request is a tool call: the method names the tool and params carry its
// arguments, including the table name.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response carries either the tool's result envelope or an error.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is the wire error. Data holds the API code, details and recovery
// hint of a coded tool error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorData is the Data of an error raised by a tool.
type ErrorData struct {
	Code         string `json:"code"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

// ParseRequest decodes one tool call from body.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}
	switch {
	case req.JSONRPC != rpcVersion:
		return Request{}, fmt.Errorf("%w: jsonrpc must be %s", errInvalidRequest, rpcVersion)
	case req.Method == "":
		return Request{}, fmt.Errorf("%w: method required", errInvalidRequest)
	}
	return req, nil
}

// WriteResult answers id with result.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, Response{JSONRPC: rpcVersion, Result: result, ID: id})
}

// WriteError answers id with err mapped to a wire error, and returns that
// error. Parse and request failures keep their protocol codes. Coded tool
// errors carry their API code in Data. Anything else is internal.
func WriteError(w http.ResponseWriter, id any, err error) *Error {
	rpcErr := toRPCError(err)
	writeJSON(w, Response{JSONRPC: rpcVersion, Error: rpcErr, ID: id})
	return rpcErr
}

func toRPCError(err error) *Error {
	switch {
	case errors.Is(err, errParse):
		return &Error{Code: ErrParseCode, Message: err.Error()}
	case errors.Is(err, errInvalidRequest):
		return &Error{Code: ErrInvalidReq, Message: err.Error()}
	}

	var coded codedError
	if !errors.As(err, &coded) {
		return &Error{Code: ErrInternal, Message: err.Error()}
	}
	code := ErrInvalidParams
	if coded.CodeValue() == "UNKNOWN_METHOD" {
		code = ErrMethodNotFound
	}
	return &Error{
		Code:    code,
		Message: coded.MessageValue(),
		Data: ErrorData{
			Code:         coded.CodeValue(),
			Details:      coded.DetailsValue(),
			RecoveryHint: coded.RecoveryHintValue(),
		},
	}
}

func writeJSON(w http.ResponseWriter, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
