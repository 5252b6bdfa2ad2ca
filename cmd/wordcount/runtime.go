package main

import (
	"github.com/machinefabric/flownode-go/guest"
	"github.com/machinefabric/flownode-go/wordcount"
)

// runtime builds the guest runtime shared by the wasm exports and the native
// CLI: the word-count descriptor with its node registered.
func runtime() *guest.Runtime {
	r := guest.New(wordcount.Descriptor())
	r.Register(wordcount.NodeType, wordcount.New())
	return r
}
