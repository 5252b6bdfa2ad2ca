// Package host loads guest compute plugins into a wazero runtime and drives
// the allocate/release/describe/invoke boundary: it writes request bytes into
// guest-owned buffers, invokes one phase synchronously, and reads the response
// back, retrying with a larger buffer whenever the guest reports truncation.
package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/machinefabric/flownode-go/manifest"
	"github.com/machinefabric/flownode-go/wire"
)

// guestModule is the raw boundary the host drives. Concrete implementations
// wrap a wazero module; tests substitute an in-process fake.
type guestModule interface {
	Allocate(ctx context.Context, size uint32) (uint32, error)
	Release(ctx context.Context, ptr, size uint32) error
	Describe(ctx context.Context, outPtr, outCap uint32) (uint32, error)
	Invoke(ctx context.Context, inPtr, inLen, outPtr, outCap uint32) (uint32, error)
	Read(ptr, size uint32) ([]byte, error)
	Write(ptr uint32, data []byte) error
	Close(ctx context.Context) error
}

// Plugin is a loaded guest module. Calls are serialized; the guest is
// single-threaded and holds no state between calls.
type Plugin struct {
	meta   *manifest.Metadata
	guest  guestModule
	logger *zap.Logger
	mu     sync.Mutex
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Plugin) { p.logger = logger }
}

// Open compiles and instantiates a guest module from wasm bytes, applying the
// manifest's declared memory ceiling.
func Open(ctx context.Context, wasmBytes []byte, meta *manifest.Metadata, opts ...Option) (*Plugin, error) {
	runtimeConfig := wazero.NewRuntimeConfig()

	if meta.Permissions.Memory != "" {
		pages, err := memoryLimitPages(meta.Permissions.Memory)
		if err != nil {
			return nil, err
		}
		runtimeConfig = runtimeConfig.WithMemoryLimitPages(pages)
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	moduleConfig := wazero.NewModuleConfig().
		WithName(meta.Name).
		WithStartFunctions() // the guest exports functions; nothing runs at load

	module, err := r.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	guest, err := newWazeroGuest(r, module)
	if err != nil {
		_ = module.Close(ctx)
		_ = r.Close(ctx)
		return nil, err
	}

	return newPlugin(guest, meta, opts...), nil
}

func newPlugin(guest guestModule, meta *manifest.Metadata, opts ...Option) *Plugin {
	p := &Plugin{
		meta:   meta,
		guest:  guest,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metadata returns the manifest the plugin was loaded with.
func (p *Plugin) Metadata() *manifest.Metadata {
	return p.meta
}

// Describe asks the guest for its capability descriptor. The guest reports
// the true encoded length, so a first attempt that comes back truncated is
// retried once with the exact size.
func (p *Plugin) Describe(ctx context.Context) (*manifest.Metadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := p.readBounded(ctx, defaultDescribeCapacity, p.guest.Describe)
	if err != nil {
		return nil, fmt.Errorf("describe failed: %w", err)
	}

	meta, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("describe returned an unparseable descriptor: %w", err)
	}
	return meta, nil
}

// Call invokes one phase of one node in the guest. The request's config and
// input are validated against the node's declared schemas first, so malformed
// documents are rejected host-side without crossing the boundary.
func (p *Plugin) Call(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	if err := ValidateRequest(p.meta.Node(req.Node), req); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if timeout := callTimeout(p.meta.Permissions.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reqBytes, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	invocation := uuid.NewString()
	p.logger.Debug("invoking plugin",
		zap.String("invocation_id", invocation),
		zap.String("plugin", p.meta.Name),
		zap.String("node", req.Node),
		zap.String("function", req.Function),
		zap.Int("request_bytes", len(reqBytes)),
	)

	inPtr, err := p.guest.Allocate(ctx, uint32(len(reqBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate request buffer: %w", err)
	}
	defer func() {
		_ = p.guest.Release(ctx, inPtr, uint32(len(reqBytes)))
	}()

	if err := p.guest.Write(inPtr, reqBytes); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	respBytes, err := p.readBounded(ctx, defaultInvokeCapacity,
		func(ctx context.Context, outPtr, outCap uint32) (uint32, error) {
			return p.guest.Invoke(ctx, inPtr, uint32(len(reqBytes)), outPtr, outCap)
		})
	if err != nil {
		return nil, fmt.Errorf("invoke failed: %w", err)
	}

	resp, err := wire.DecodeResponse(respBytes)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("plugin responded",
		zap.String("invocation_id", invocation),
		zap.Bool("success", resp.Success),
		zap.String("next", resp.Next),
		zap.Int("response_bytes", len(respBytes)),
	)

	return resp, nil
}

// Close releases the guest module and its runtime.
func (p *Plugin) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.guest.Close(ctx)
}

// boundedCall writes into a caller-supplied guest buffer and returns the true
// required byte count, which may exceed the buffer's capacity.
type boundedCall func(ctx context.Context, outPtr, outCap uint32) (uint32, error)

// readBounded performs a boundary call under the truncation contract:
// allocate a buffer, call, and if the reported length exceeds the capacity,
// retry once with the exact reported size.
func (p *Plugin) readBounded(ctx context.Context, capacity uint32, call boundedCall) ([]byte, error) {
	for {
		outPtr, err := p.guest.Allocate(ctx, capacity)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate response buffer: %w", err)
		}

		actual, err := call(ctx, outPtr, capacity)
		if err != nil {
			_ = p.guest.Release(ctx, outPtr, capacity)
			return nil, err
		}

		if actual <= capacity {
			data, err := p.guest.Read(outPtr, actual)
			relErr := p.guest.Release(ctx, outPtr, capacity)
			if err != nil {
				return nil, fmt.Errorf("failed to read response: %w", err)
			}
			if relErr != nil {
				return nil, fmt.Errorf("failed to release response buffer: %w", relErr)
			}
			return data, nil
		}

		// Truncated: the guest reported the true size, retry with it.
		if err := p.guest.Release(ctx, outPtr, capacity); err != nil {
			return nil, fmt.Errorf("failed to release truncated buffer: %w", err)
		}
		capacity = actual
	}
}
