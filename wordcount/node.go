// Package wordcount implements the word-count node: prep sanitizes text, exec
// aggregates token statistics, post picks a routing label from the total.
package wordcount

import (
	"encoding/json"
	"fmt"

	"github.com/machinefabric/flownode-go/wire"
)

// NodeType is the node type this package exports.
const NodeType = "word-count"

// prepInput is the raw input shape accepted by prep.
type prepInput struct {
	Text          *string `json:"text"`
	CaseSensitive bool    `json:"case_sensitive"`
}

// prepResult is prep's output, consumed by exec.
type prepResult struct {
	OriginalText  string `json:"original_text"`
	CleanedText   string `json:"cleaned_text"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// Node implements the three phases for word counting.
type Node struct{}

// New creates the word-count node.
func New() *Node {
	return &Node{}
}

// Prep cleans the raw text for tokenization.
func (n *Node) Prep(req *wire.Request) *wire.Response {
	if len(req.Input) == 0 {
		return wire.Failure(wire.ErrMissingInput)
	}

	var input prepInput
	if err := json.Unmarshal(req.Input, &input); err != nil {
		return wire.Failure(fmt.Errorf("%w: %v", wire.ErrInvalidInputShape, err))
	}
	if input.Text == nil {
		return wire.Failure(fmt.Errorf("%w: missing required field: text", wire.ErrInvalidInputShape))
	}

	result := prepResult{
		OriginalText:  *input.Text,
		CleanedText:   CleanText(*input.Text),
		CaseSensitive: input.CaseSensitive,
	}

	output, _ := json.Marshal(&result)
	return wire.OK(output)
}

// Exec tokenizes the cleaned text and computes the aggregation.
func (n *Node) Exec(req *wire.Request) *wire.Response {
	if len(req.Input) == 0 {
		return wire.Failure(wire.ErrMissingPrepData)
	}

	// Prep's output is read leniently: absent fields default, but input that
	// is not an object at all is a shape error.
	var prep prepResult
	if err := json.Unmarshal(req.Input, &prep); err != nil {
		return wire.Failure(fmt.Errorf("%w: %v", wire.ErrInvalidInputShape, err))
	}

	cfg := parseConfig(req.Config)
	words := Tokenize(prep.CleanedText, prep.CaseSensitive, cfg)
	stats := Aggregate(words)

	output, _ := json.Marshal(&stats)
	return wire.OK(output)
}

// Post routes on total_words and passes exec's output through unchanged.
func (n *Node) Post(req *wire.Request) *wire.Response {
	if len(req.Input) == 0 {
		return wire.Failure(wire.ErrMissingExecResult)
	}

	var result struct {
		TotalWords int `json:"total_words"`
	}
	if err := json.Unmarshal(req.Input, &result); err != nil {
		return wire.Failure(fmt.Errorf("%w: %v", wire.ErrInvalidInputShape, err))
	}

	return wire.Route(req.Input, RouteLabel(result.TotalWords))
}
