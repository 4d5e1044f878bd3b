package bridge

import "encoding/json"

// JSON-RPC error codes. The -327xx range follows the JSON-RPC 2.0 spec;
// -32000 covers failures inside an otherwise well-formed call.
const (
	CodeParseError      = -32700
	CodeMethodNotFound  = -32601
	CodeInvalidParams   = -32602
	CodeOperationFailed = -32000
)

// RPCRequest is one call from the editor. Params stay raw until the method
// handler knows which shape to decode them into.
type RPCRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// RPCResponse answers a request, echoing its ID. Exactly one of Result and
// Error is set.
type RPCResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *RPCError `json:"error,omitempty"`
}

// RPCError describes a failed call.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// RPCNotification is a server-initiated message. It carries no ID and expects
// no reply.
type RPCNotification struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

func okResponse(id any, result any) RPCResponse {
	return RPCResponse{ID: id, Result: result}
}

func errResponse(id any, code int, message string) RPCResponse {
	return RPCResponse{ID: id, Error: &RPCError{Code: code, Message: message}}
}
