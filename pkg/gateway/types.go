package gateway

import "github.com/hxcode/nativeos/pkg/render"

// RPCRequest is a command request from a GUI or CLI client.
type RPCRequest struct {
	ID     string    `json:"id"`
	Method string    `json:"method"`
	Params RPCParams `json:"params"`
}

// RPCParams carries method parameters. Dispatch takes the full
// natural-language instruction as its only semantic input.
type RPCParams struct {
	Input string `json:"input"`
}

// RPCResponse is the reply to one request.
type RPCResponse struct {
	ID     string           `json:"id"`
	Result *render.Response `json:"result,omitempty"`
	Error  *RPCError        `json:"error,omitempty"`
}

// RPCError reports a transport-level failure. Dispatch failures are not
// RPC errors: they arrive as rendered responses with succeeded=false.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}

// RPC error codes, JSON-RPC style.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
)
