package guest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinefabric/flownode-go/manifest"
	"github.com/machinefabric/flownode-go/wire"
)

// echoNode returns canned responses tagging which phase ran.
type echoNode struct{}

func (echoNode) Prep(req *wire.Request) *wire.Response {
	return wire.OK(json.RawMessage(`{"phase": "prep"}`))
}

func (echoNode) Exec(req *wire.Request) *wire.Response {
	return wire.OK(json.RawMessage(`{"phase": "exec"}`))
}

func (echoNode) Post(req *wire.Request) *wire.Response {
	return wire.Route(req.Input, "done")
}

func testManifest() *manifest.Metadata {
	return manifest.New("echo", "0.1.0", "echo plugin for tests").
		WithBinary("plugin.wasm").
		WithNode(manifest.NodeDefinition{
			Type:        "echo",
			Category:    "test",
			Description: "echoes the phase name",
		})
}

func testRuntime() *Runtime {
	rt := New(testManifest())
	rt.Register("echo", echoNode{})
	return rt
}

func TestDispatchRoutesPhases(t *testing.T) {
	rt := testRuntime()

	for _, function := range []string{"prep", "exec"} {
		resp := rt.Dispatch(&wire.Request{Node: "echo", Function: function})
		require.True(t, resp.Success)
		assert.JSONEq(t, `{"phase": "`+function+`"}`, string(resp.Output))
	}

	resp := rt.Dispatch(&wire.Request{Node: "echo", Function: "post", Input: json.RawMessage(`{"x":1}`)})
	require.True(t, resp.Success)
	assert.Equal(t, "done", resp.Next)
}

func TestDispatchUnknownFunction(t *testing.T) {
	resp := testRuntime().Dispatch(&wire.Request{Node: "echo", Function: "finalize"})

	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "finalize")
	assert.Empty(t, resp.Next)
	assert.Nil(t, resp.Output)
}

func TestDispatchSingleNodeAcceptsAnyName(t *testing.T) {
	// With one registered node the node field is informational
	resp := testRuntime().Dispatch(&wire.Request{Node: "something-else", Function: "prep"})
	assert.True(t, resp.Success)
}

func TestDispatchUnknownNodeAmongMany(t *testing.T) {
	rt := testRuntime()
	rt.Register("other", echoNode{})

	resp := rt.Dispatch(&wire.Request{Node: "missing", Function: "prep"})
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "missing")
}

func TestHandleMalformedBytes(t *testing.T) {
	rt := testRuntime()

	// Whatever the failure, the boundary yields a decodable failure Response
	for _, in := range [][]byte{
		nil,
		[]byte("not json"),
		{0xff, 0xfe},
		[]byte(`{"node": "echo"}`),
	} {
		resp := rt.Handle(in)
		require.False(t, resp.Success)
		assert.NotEmpty(t, resp.Error)

		decoded, err := wire.DecodeResponse(wire.EncodeResponse(resp))
		require.NoError(t, err)
		assert.False(t, decoded.Success)
	}
}

func TestDescribeIdempotent(t *testing.T) {
	rt := testRuntime()

	first := make([]byte, 4096)
	n1 := rt.Describe(first)
	require.Greater(t, n1, 0)
	require.LessOrEqual(t, n1, len(first))

	second := make([]byte, 4096)
	n2 := rt.Describe(second)
	assert.Equal(t, n1, n2)
	assert.Equal(t, first[:n1], second[:n2], "describe is byte-identical across calls")

	var meta manifest.Metadata
	require.NoError(t, json.Unmarshal(first[:n1], &meta))
	assert.Equal(t, "echo", meta.Name)
}

func TestDescribeTruncation(t *testing.T) {
	rt := testRuntime()

	trueLen := rt.Describe(nil)
	require.Greater(t, trueLen, 0)

	small := make([]byte, 8)
	n := rt.Describe(small)
	assert.Equal(t, trueLen, n, "truncated call still reports the true length")

	full := make([]byte, trueLen)
	rt.Describe(full)
	assert.Equal(t, full[:8], small, "no more than capacity bytes written")
}

func TestInvokeTruncation(t *testing.T) {
	rt := testRuntime()
	req := []byte(`{"node": "echo", "function": "prep"}`)

	trueLen := rt.Invoke(req, nil)
	require.Greater(t, trueLen, 0)

	small := make([]byte, 4)
	n := rt.Invoke(req, small)
	assert.Equal(t, trueLen, n)

	full := make([]byte, trueLen)
	rt.Invoke(req, full)
	assert.Equal(t, full[:4], small)

	resp, err := wire.DecodeResponse(full)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestInvokeFullCycle(t *testing.T) {
	rt := testRuntime()

	req, err := wire.EncodeRequest(&wire.Request{Node: "echo", Function: "exec"})
	require.NoError(t, err)

	out := make([]byte, 1024)
	n := rt.Invoke(req, out)
	require.LessOrEqual(t, n, len(out))

	resp, err := wire.DecodeResponse(out[:n])
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.JSONEq(t, `{"phase": "exec"}`, string(resp.Output))
}
