// Package mem implements the guest-side buffer arena. The host never receives
// Go slices; it receives linear-memory addresses of buffers the arena owns and
// keeps pinned until an explicit, size-checked release.
package mem

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrUnknownBuffer means the address was never handed out by Allocate,
	// or was already released.
	ErrUnknownBuffer = errors.New("unknown buffer address")

	// ErrSizeMismatch means the release size differs from the allocation size.
	ErrSizeMismatch = errors.New("release size does not match allocation size")
)

// Arena hands out guest-owned buffers by address. The pin map keeps every live
// buffer reachable so the collector cannot reclaim memory the host still holds
// an address into.
type Arena struct {
	buffers map[uintptr][]byte
	sizes   map[uintptr]uint32
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{
		buffers: make(map[uintptr][]byte),
		sizes:   make(map[uintptr]uint32),
	}
}

// Allocate reserves size bytes and returns their address. Content is
// uninitialized as far as the contract goes. Exhaustion is fatal: make
// aborts the program, there is no fallback allocator to recover with.
//
// A zero-size allocation still returns a unique, releasable address.
func (a *Arena) Allocate(size uint32) uintptr {
	backing := size
	if backing == 0 {
		backing = 1
	}
	buf := make([]byte, backing)
	ptr := uintptr(unsafe.Pointer(&buf[0]))
	a.buffers[ptr] = buf
	a.sizes[ptr] = size
	return ptr
}

// Release reclaims a buffer previously returned by Allocate. The size must be
// exactly the size used at allocation; a mismatch is rejected and the buffer
// stays live. After a successful release the address is invalid.
func (a *Arena) Release(ptr uintptr, size uint32) error {
	recorded, ok := a.sizes[ptr]
	if !ok {
		return fmt.Errorf("%w: 0x%x", ErrUnknownBuffer, ptr)
	}
	if recorded != size {
		return fmt.Errorf("%w: allocated %d, released %d", ErrSizeMismatch, recorded, size)
	}
	delete(a.buffers, ptr)
	delete(a.sizes, ptr)
	return nil
}

// View returns the live buffer at ptr, truncated to size bytes. The host reads
// and writes request/response payloads through views rather than the guest
// ever dereferencing host-owned pointers.
func (a *Arena) View(ptr uintptr, size uint32) ([]byte, error) {
	buf, ok := a.buffers[ptr]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownBuffer, ptr)
	}
	recorded := a.sizes[ptr]
	if size > recorded {
		return nil, fmt.Errorf("view of %d bytes exceeds allocation of %d", size, recorded)
	}
	return buf[:size], nil
}

// Len reports the number of live buffers. Diagnostic only.
func (a *Arena) Len() int {
	return len(a.buffers)
}
