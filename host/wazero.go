package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Boundary export names the guest module must provide.
const (
	exportAllocate = "allocate"
	exportRelease  = "release"
	exportDescribe = "describe"
	exportInvoke   = "invoke"
	exportMemory   = "memory"
)

// wazeroGuest adapts a wazero module to the guestModule boundary.
type wazeroGuest struct {
	runtime  wazero.Runtime
	module   api.Module
	memory   api.Memory
	allocate api.Function
	release  api.Function
	describe api.Function
	invoke   api.Function
}

func newWazeroGuest(runtime wazero.Runtime, module api.Module) (*wazeroGuest, error) {
	memory := module.ExportedMemory(exportMemory)
	if memory == nil {
		return nil, fmt.Errorf("module does not export memory")
	}

	g := &wazeroGuest{
		runtime: runtime,
		module:  module,
		memory:  memory,
	}

	for _, export := range []struct {
		name string
		fn   *api.Function
	}{
		{exportAllocate, &g.allocate},
		{exportRelease, &g.release},
		{exportDescribe, &g.describe},
		{exportInvoke, &g.invoke},
	} {
		f := module.ExportedFunction(export.name)
		if f == nil {
			return nil, fmt.Errorf("module does not export required function: %s", export.name)
		}
		*export.fn = f
	}

	return g, nil
}

func (g *wazeroGuest) Allocate(ctx context.Context, size uint32) (uint32, error) {
	results, err := g.allocate.Call(ctx, uint64(size))
	if err != nil {
		return 0, err
	}
	return uint32(results[0]), nil
}

func (g *wazeroGuest) Release(ctx context.Context, ptr, size uint32) error {
	_, err := g.release.Call(ctx, uint64(ptr), uint64(size))
	return err
}

func (g *wazeroGuest) Describe(ctx context.Context, outPtr, outCap uint32) (uint32, error) {
	results, err := g.describe.Call(ctx, uint64(outPtr), uint64(outCap))
	if err != nil {
		return 0, err
	}
	return uint32(results[0]), nil
}

func (g *wazeroGuest) Invoke(ctx context.Context, inPtr, inLen, outPtr, outCap uint32) (uint32, error) {
	results, err := g.invoke.Call(ctx, uint64(inPtr), uint64(inLen), uint64(outPtr), uint64(outCap))
	if err != nil {
		return 0, err
	}
	return uint32(results[0]), nil
}

func (g *wazeroGuest) Read(ptr, size uint32) ([]byte, error) {
	view, ok := g.memory.Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("failed to read %d bytes at 0x%x", size, ptr)
	}
	// The view aliases linear memory; copy so later guest calls cannot
	// mutate what we hand back.
	data := make([]byte, len(view))
	copy(data, view)
	return data, nil
}

func (g *wazeroGuest) Write(ptr uint32, data []byte) error {
	if !g.memory.Write(ptr, data) {
		return fmt.Errorf("failed to write %d bytes at 0x%x", len(data), ptr)
	}
	return nil
}

func (g *wazeroGuest) Close(ctx context.Context) error {
	if g.module != nil {
		_ = g.module.Close(ctx)
	}
	if g.runtime != nil {
		return g.runtime.Close(ctx)
	}
	return nil
}
