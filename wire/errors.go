package wire

import (
	"errors"
	"fmt"
)

// Error taxonomy for the call boundary. Every one of these is recovered inside
// the call and surfaced as a failure Response; none of them crosses the
// boundary as a crash.
var (
	// ErrInvalidEncoding means the request bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("request is not valid UTF-8")

	// ErrMalformedRequest means the bytes decoded as text but do not parse
	// into the Request shape.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnknownFunction means the request named a function outside
	// prep/exec/post.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnknownNode means the request named a node type with no registered
	// handler.
	ErrUnknownNode = errors.New("unknown node")

	// ErrMissingInput means a phase requiring input received none.
	ErrMissingInput = errors.New("no input provided")

	// ErrMissingPrepData means exec received no prep output to work on.
	ErrMissingPrepData = errors.New("no prep data provided")

	// ErrMissingExecResult means post received no exec output to route on.
	ErrMissingExecResult = errors.New("no exec result provided")

	// ErrInvalidInputShape means input was present but missing required
	// sub-fields or of the wrong type.
	ErrInvalidInputShape = errors.New("invalid input shape")
)

// UnknownFunctionError builds an ErrUnknownFunction carrying the offending
// function name, so the host can see what was asked for.
func UnknownFunctionError(function string) error {
	return fmt.Errorf("%w: %s", ErrUnknownFunction, function)
}

// UnknownNodeError builds an ErrUnknownNode carrying the offending node type.
func UnknownNodeError(node string) error {
	return fmt.Errorf("%w: %s", ErrUnknownNode, node)
}
