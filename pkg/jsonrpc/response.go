package jsonrpc

import (
	"encoding/json"
	"fmt"
)

type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

/*
Error represents a JSON-RPC error object.
*/
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Convenience errors (JSON-RPC reserved codes -32600 .. -32000).
var (
	ErrParseError     = &Error{Code: -32700, Message: "Parse error"}
	ErrInvalidRequest = &Error{Code: -32600, Message: "Invalid Request"}
	ErrMethodNotFound = &Error{Code: -32601, Message: "Method not found"}
	ErrInvalidParams  = &Error{Code: -32602, Message: "Invalid params"}
	ErrInternal       = &Error{Code: -32603, Message: "Internal error"}

	ErrTaskNotFound    = &Error{Code: -32000, Message: "Task not found"}
	ErrTaskTerminal    = &Error{Code: -32001, Message: "Task is in a terminal state"}
	ErrContextNotFound = &Error{Code: -32002, Message: "Context not found"}
)

// WithMessagef creates a *copy* of an Error with a formatted message.  It
// does not modify the original error variable.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	newErr := *e
	newErr.Message = fmt.Sprintf(format, args...)
	return &newErr
}
