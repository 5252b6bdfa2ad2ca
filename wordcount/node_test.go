package wordcount

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinefabric/flownode-go/wire"
)

func prepRequest(input string) *wire.Request {
	req := &wire.Request{Node: NodeType, Function: "prep"}
	if input != "" {
		req.Input = json.RawMessage(input)
	}
	return req
}

func TestPrep(t *testing.T) {
	resp := New().Prep(prepRequest(`{"text": "The cat sat."}`))
	require.True(t, resp.Success, resp.Error)
	assert.Empty(t, resp.Next)

	var result prepResult
	require.NoError(t, json.Unmarshal(resp.Output, &result))
	assert.Equal(t, "The cat sat.", result.OriginalText)
	assert.Equal(t, "The cat sat ", result.CleanedText)
	assert.False(t, result.CaseSensitive)
}

func TestPrepCaseSensitiveFlag(t *testing.T) {
	resp := New().Prep(prepRequest(`{"text": "Hi", "case_sensitive": true}`))
	require.True(t, resp.Success, resp.Error)

	var result prepResult
	require.NoError(t, json.Unmarshal(resp.Output, &result))
	assert.True(t, result.CaseSensitive)
}

func TestPrepMissingInput(t *testing.T) {
	resp := New().Prep(prepRequest(""))
	require.False(t, resp.Success)
	assert.Equal(t, wire.ErrMissingInput.Error(), resp.Error)
	assert.Nil(t, resp.Output)
}

func TestPrepInvalidShape(t *testing.T) {
	cases := []string{
		`{"case_sensitive": true}`, // text missing
		`{"text": 42}`,             // text wrong type
		`[1, 2, 3]`,                // not an object
	}
	for _, input := range cases {
		resp := New().Prep(prepRequest(input))
		require.False(t, resp.Success, "input %s", input)
		assert.Contains(t, resp.Error, "invalid input shape")
	}
}

func execRequest(input, config string) *wire.Request {
	req := &wire.Request{Node: NodeType, Function: "exec"}
	if input != "" {
		req.Input = json.RawMessage(input)
	}
	if config != "" {
		req.Config = json.RawMessage(config)
	}
	return req
}

func TestExecScenario(t *testing.T) {
	resp := New().Exec(execRequest(`{"cleaned_text": "The cat sat ", "case_sensitive": false}`, ""))
	require.True(t, resp.Success, resp.Error)

	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Output, &stats))
	assert.Equal(t, 2, stats.TotalWords)
	assert.Equal(t, 2, stats.UniqueWords)
	assert.InDelta(t, 3.0, stats.AverageWordLength, 1e-9)
	assert.Equal(t, "cat", stats.LongestWord)
	assert.Equal(t, "cat", stats.ShortestWord)
}

func TestExecEmptyAfterFiltering(t *testing.T) {
	// Every token is a stop word; the zero-valued result is a success
	resp := New().Exec(execRequest(`{"cleaned_text": "the a an", "case_sensitive": false}`, ""))
	require.True(t, resp.Success, resp.Error)

	assert.JSONEq(t, `{
		"total_words": 0,
		"unique_words": 0,
		"word_frequencies": {},
		"average_word_length": 0,
		"longest_word": "",
		"shortest_word": ""
	}`, string(resp.Output))
}

func TestExecWithConfig(t *testing.T) {
	resp := New().Exec(execRequest(
		`{"cleaned_text": "aa bbb cccc", "case_sensitive": false}`,
		`{"min_word_length": 3, "stop_words": ["bbb"]}`,
	))
	require.True(t, resp.Success, resp.Error)

	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Output, &stats))
	assert.Equal(t, 1, stats.TotalWords)
	assert.Equal(t, map[string]int{"cccc": 1}, stats.WordFrequencies)
}

func TestExecMissingInput(t *testing.T) {
	resp := New().Exec(execRequest("", ""))
	require.False(t, resp.Success)
	assert.Equal(t, wire.ErrMissingPrepData.Error(), resp.Error)
}

func TestExecLenientFields(t *testing.T) {
	// Absent cleaned_text and case_sensitive default to ""/false
	resp := New().Exec(execRequest(`{}`, ""))
	require.True(t, resp.Success, resp.Error)

	var stats Stats
	require.NoError(t, json.Unmarshal(resp.Output, &stats))
	assert.Zero(t, stats.TotalWords)
}

func TestExecNonObjectInput(t *testing.T) {
	resp := New().Exec(execRequest(`"just a string"`, ""))
	require.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid input shape")
}

func postRequest(input string) *wire.Request {
	req := &wire.Request{Node: NodeType, Function: "post"}
	if input != "" {
		req.Input = json.RawMessage(input)
	}
	return req
}

func TestPostRouting(t *testing.T) {
	cases := []struct {
		totalWords int
		want       string
	}{
		{0, "empty"},
		{42, "short"},
		{999, "medium"},
		{1000, "long"},
		{1500, "long"},
	}

	for _, tc := range cases {
		input, err := json.Marshal(map[string]interface{}{
			"total_words":  tc.totalWords,
			"unique_words": tc.totalWords,
		})
		require.NoError(t, err)

		resp := New().Post(postRequest(string(input)))
		require.True(t, resp.Success, resp.Error)
		assert.Equal(t, tc.want, resp.Next, "total_words=%d", tc.totalWords)
	}
}

func TestPostPassesOutputThrough(t *testing.T) {
	// post must not recompute: output equals input byte-for-byte
	input := `{"total_words":2,"unique_words":2,"word_frequencies":{"cat":1,"sat":1},"average_word_length":3,"longest_word":"cat","shortest_word":"cat"}`

	resp := New().Post(postRequest(input))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, input, string(resp.Output))
	assert.Equal(t, "short", resp.Next)
}

func TestPostMissingInput(t *testing.T) {
	resp := New().Post(postRequest(""))
	require.False(t, resp.Success)
	assert.Equal(t, wire.ErrMissingExecResult.Error(), resp.Error)
	assert.Empty(t, resp.Next)
}

func TestPipelineEndToEnd(t *testing.T) {
	node := New()

	prep := node.Prep(prepRequest(`{"text": "Dogs chase cats; cats chase mice!"}`))
	require.True(t, prep.Success, prep.Error)

	exec := node.Exec(&wire.Request{Node: NodeType, Function: "exec", Input: prep.Output})
	require.True(t, exec.Success, exec.Error)

	var stats Stats
	require.NoError(t, json.Unmarshal(exec.Output, &stats))
	assert.Equal(t, 6, stats.TotalWords)
	assert.Equal(t, 4, stats.UniqueWords)
	assert.Equal(t, map[string]int{"dogs": 1, "chase": 2, "cats": 2, "mice": 1}, stats.WordFrequencies)

	post := node.Post(&wire.Request{Node: NodeType, Function: "post", Input: exec.Output})
	require.True(t, post.Success, post.Error)
	assert.Equal(t, "short", post.Next)
	assert.Equal(t, string(exec.Output), string(post.Output))
}

func TestDescriptor(t *testing.T) {
	meta := Descriptor()
	assert.Equal(t, "word-counter", meta.Name)
	assert.Equal(t, "wasm", meta.Runtime)
	require.Len(t, meta.Nodes, 1)

	node := meta.Node(NodeType)
	require.NotNil(t, node)
	assert.Equal(t, "text", node.Category)
	assert.NotNil(t, node.ConfigSchema)
	assert.NotNil(t, node.InputSchema)
	assert.NotNil(t, node.OutputSchema)

	assert.Equal(t, "5MB", meta.Permissions.Memory)
	assert.Equal(t, 3000, meta.Permissions.Timeout)
}
