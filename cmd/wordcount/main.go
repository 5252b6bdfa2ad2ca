//go:build !wasm

// Command wordcount is the word-count plugin binary. The wasm build exposes
// the allocate/release/describe/invoke boundary to a plugin host; this native
// build provides a CLI for inspecting the manifest and exercising phases
// directly:
//
//	wordcount manifest              print the capability descriptor as JSON
//	wordcount call <function>       read a request JSON document on stdin,
//	                                write the response JSON to stdout
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "wordcount: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	switch args[0] {
	case "manifest":
		data, err := json.MarshalIndent(runtime().Manifest(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal manifest: %w", err)
		}
		fmt.Println(string(data))
		return nil

	case "call":
		if len(args) != 2 {
			return fmt.Errorf("usage: wordcount call <prep|exec|post>")
		}
		return runCall(args[1], os.Stdin, os.Stdout)

	case "--help", "-h":
		printUsage()
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// runCall feeds a request read from stdin through the same path the wasm
// boundary uses, minus the linear-memory hand-off.
func runCall(function string, in io.Reader, out io.Writer) error {
	input, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	// The function argument overrides whatever the document says, so
	// `echo '{"input":{...}}' | wordcount call prep` works without
	// repeating the function in the document.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(input, &doc); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}
	if doc == nil {
		// A JSON null parses but leaves the map nil.
		doc = map[string]json.RawMessage{}
	}
	doc["function"] = json.RawMessage(fmt.Sprintf("%q", function))
	patched, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp := runtime().Handle(patched)
	encoded, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Fprintln(out, string(encoded))
	return nil
}

func printUsage() {
	meta := runtime().Manifest()
	fmt.Fprintf(os.Stderr, "%s v%s\n", meta.Name, meta.Version)
	fmt.Fprintf(os.Stderr, "%s\n\n", meta.Description)
	fmt.Fprintf(os.Stderr, "USAGE:\n")
	fmt.Fprintf(os.Stderr, "    wordcount <COMMAND>\n\n")
	fmt.Fprintf(os.Stderr, "COMMANDS:\n")
	fmt.Fprintf(os.Stderr, "    manifest           Output the capability descriptor as JSON\n")
	fmt.Fprintf(os.Stderr, "    call <function>    Invoke one phase with a request from stdin\n")
}
