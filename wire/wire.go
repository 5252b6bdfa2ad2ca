// Package wire defines the Request/Response envelope exchanged with the host
// and the codec that moves it across the linear-memory boundary as UTF-8 JSON.
package wire

import "encoding/json"

// Function names the three pipeline phases a request may invoke.
type Function uint8

const (
	FunctionPrep Function = iota
	FunctionExec
	FunctionPost
)

// String returns the wire spelling of the function name.
func (f Function) String() string {
	switch f {
	case FunctionPrep:
		return "prep"
	case FunctionExec:
		return "exec"
	case FunctionPost:
		return "post"
	default:
		return "invalid"
	}
}

// ParseFunction maps a wire function name onto the closed phase variant.
// Any other value is rejected here, at the boundary, not inside handlers.
func ParseFunction(s string) (Function, error) {
	switch s {
	case "prep":
		return FunctionPrep, nil
	case "exec":
		return FunctionExec, nil
	case "post":
		return FunctionPost, nil
	default:
		return 0, UnknownFunctionError(s)
	}
}

// Request is one invocation of one phase for one node instance. It is built
// fresh from decoded bytes per call and discarded when the call returns.
type Request struct {
	// Node type being invoked
	Node string `json:"node"`

	// Function to call (prep, exec, post)
	Function string `json:"function"`

	// Node configuration
	Config json.RawMessage `json:"config,omitempty"`

	// Input data: the previous phase's output, threaded by the host
	Input json.RawMessage `json:"input,omitempty"`
}

// Response is the result of one phase invocation. Failure is a normal,
// structured outcome: success=false with a human-readable error.
type Response struct {
	Success bool            `json:"success"`
	Output  json.RawMessage `json:"output,omitempty"`
	Error   string          `json:"error,omitempty"`

	// Next is the routing label chosen by the post phase
	Next string `json:"next,omitempty"`
}

// OK builds a success Response carrying output.
func OK(output json.RawMessage) *Response {
	return &Response{Success: true, Output: output}
}

// Route builds a success Response carrying output and a routing label.
func Route(output json.RawMessage, next string) *Response {
	return &Response{Success: true, Output: output, Next: next}
}

// Failure builds a failure Response from an error.
func Failure(err error) *Response {
	return &Response{Success: false, Error: err.Error()}
}
