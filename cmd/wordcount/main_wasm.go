//go:build wasm

package main

import (
	"github.com/machinefabric/flownode-go/guest"
	"github.com/machinefabric/flownode-go/mem"
)

// The guest is single-threaded and synchronous; one arena and one runtime
// serve every boundary call.
var (
	arena = mem.New()
	rt    *guest.Runtime
)

func init() {
	rt = runtime()
}

// allocate reserves size bytes of guest-owned memory for the host to write
// into, returning its linear-memory address. Exhaustion aborts: the guest has
// no fallback allocator.
//
//export allocate
func allocate(size uint32) uint32 {
	return uint32(arena.Allocate(size))
}

// release reclaims a buffer previously returned by allocate. The size must
// match the allocation exactly; mismatches are rejected and the buffer stays
// pinned, which is the safe failure mode for a hostile or buggy host.
//
//export release
func release(ptr uint32, size uint32) {
	_ = arena.Release(uintptr(ptr), size)
}

// describe writes the capability descriptor into the host's buffer,
// truncating silently, and returns the true encoded length.
//
//export describe
func describe(outPtr uint32, outCap uint32) uint32 {
	out, err := arena.View(uintptr(outPtr), outCap)
	if err != nil {
		// Unknown buffer: nothing to write into, but the host can still
		// learn the required size and retry correctly.
		return uint32(rt.Describe(nil))
	}
	return uint32(rt.Describe(out))
}

// invoke decodes one request, dispatches it, and writes the encoded response
// into the host's buffer, returning the true response length.
//
//export invoke
func invoke(inPtr uint32, inLen uint32, outPtr uint32, outCap uint32) uint32 {
	in, err := arena.View(uintptr(inPtr), inLen)
	if err != nil {
		in = nil // decodes to a MalformedRequest failure Response
	}

	out, err := arena.View(uintptr(outPtr), outCap)
	if err != nil {
		return uint32(rt.Invoke(in, nil))
	}
	return uint32(rt.Invoke(in, out))
}

func main() {
	// Required for the wasm build; the host calls exports directly.
}
