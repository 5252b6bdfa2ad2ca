// Package guest implements the plugin-side runtime: it owns the manifest,
// routes decoded requests to the registered node's phase handlers, and
// implements the describe/invoke buffer semantics of the host boundary.
//
// The runtime is stateless across calls. Each invocation decodes a fresh
// Request, produces one Response, and discards everything; continuity between
// prep, exec and post is the host's responsibility.
package guest

import (
	"github.com/machinefabric/flownode-go/manifest"
	"github.com/machinefabric/flownode-go/wire"
)

// Node is one node type's three phase handlers. Handlers return a Response
// rather than an error so that failure stays a structured outcome; a handler
// must never panic across this interface.
type Node interface {
	// Prep sanitizes raw input for exec
	Prep(req *wire.Request) *wire.Response

	// Exec performs the core aggregation over prep's output
	Exec(req *wire.Request) *wire.Response

	// Post decides downstream routing from exec's output
	Post(req *wire.Request) *wire.Response
}

// Runtime dispatches requests for a set of registered nodes.
type Runtime struct {
	meta    *manifest.Metadata
	nodes   map[string]Node
	encoded []byte // cached manifest encoding, so describe is byte-identical
}

// New creates a runtime advertising the given manifest.
func New(meta *manifest.Metadata) *Runtime {
	return &Runtime{
		meta:  meta,
		nodes: make(map[string]Node),
	}
}

// Register adds a node's handlers under its node type.
func (r *Runtime) Register(nodeType string, node Node) {
	r.nodes[nodeType] = node
}

// Manifest returns the runtime's manifest.
func (r *Runtime) Manifest() *manifest.Metadata {
	return r.meta
}

// Describe writes the encoded manifest into out, truncating silently, and
// returns the true encoded length. Deterministic and side-effect free: the
// encoding is computed once and reused, so repeated calls are byte-identical.
func (r *Runtime) Describe(out []byte) int {
	if r.encoded == nil {
		data, err := manifest.Encode(r.meta)
		if err != nil {
			// Unencodable manifests are a programming error in the plugin;
			// surface an empty descriptor rather than trap.
			data = []byte("{}")
		}
		r.encoded = data
	}
	copy(out, r.encoded)
	return len(r.encoded)
}

// Invoke decodes one request from in, dispatches it, and writes the encoded
// response into out, truncating silently. The return value is the true
// response length so the host can detect truncation and retry. Every failure
// mode still produces a decodable failure Response.
func (r *Runtime) Invoke(in, out []byte) int {
	resp := r.Handle(in)
	data := wire.EncodeResponse(resp)
	copy(out, data)
	return len(data)
}

// Handle decodes and dispatches one request, returning the Response.
func (r *Runtime) Handle(in []byte) *wire.Response {
	req, err := wire.DecodeRequest(in)
	if err != nil {
		return wire.Failure(err)
	}
	return r.Dispatch(req)
}

// Dispatch routes a decoded request to the matching node and phase. It is a
// pure function of the request: no retries, no queuing, one response.
func (r *Runtime) Dispatch(req *wire.Request) *wire.Response {
	fn, err := wire.ParseFunction(req.Function)
	if err != nil {
		return wire.Failure(err)
	}

	node, err := r.resolve(req.Node)
	if err != nil {
		return wire.Failure(err)
	}

	switch fn {
	case wire.FunctionPrep:
		return node.Prep(req)
	case wire.FunctionExec:
		return node.Exec(req)
	default:
		return node.Post(req)
	}
}

// resolve picks the node handler for a node type. A plugin exporting a single
// node accepts any node name, matching hosts that treat the field as purely
// informational; with multiple nodes the name must match a registration.
func (r *Runtime) resolve(nodeType string) (Node, error) {
	if node, ok := r.nodes[nodeType]; ok {
		return node, nil
	}
	if len(r.nodes) == 1 {
		for _, node := range r.nodes {
			return node, nil
		}
	}
	return nil, wire.UnknownNodeError(nodeType)
}
