package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/machinefabric/flownode-go/manifest"
)

// DefaultPluginPaths returns the default directories searched for plugins.
func DefaultPluginPaths() []string {
	paths := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".flownode", "plugins"))
	}

	paths = append(paths, "/usr/local/share/flownode/plugins", "./plugins")
	return paths
}

// Loader discovers plugin manifests on disk and loads their guest modules.
type Loader struct {
	discovered map[string]*manifest.Metadata
	cache      *discoveryCache
	logger     *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDiscoveryCache persists parsed manifests at path, keyed by manifest
// file and modification time, so repeated discovery skips unchanged files.
func WithDiscoveryCache(path string) LoaderOption {
	return func(l *Loader) { l.cache = newDiscoveryCache(path) }
}

// WithLoaderLogger sets the structured logger. Defaults to a no-op logger.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a plugin loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		discovered: make(map[string]*manifest.Metadata),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache != nil {
		if err := l.cache.load(); err != nil {
			l.logger.Warn("failed to load discovery cache", zap.Error(err))
		}
	}
	return l
}

// Discover walks the given paths (or the defaults) for manifest.yaml and
// manifest.json files, returning every valid manifest found. Invalid
// manifests are logged and skipped rather than failing the walk.
func (l *Loader) Discover(paths ...string) ([]*manifest.Metadata, error) {
	if len(paths) == 0 {
		paths = DefaultPluginPaths()
	}

	var found []*manifest.Metadata

	for _, root := range paths {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if info.Name() != "manifest.yaml" && info.Name() != "manifest.json" {
				return nil
			}

			meta, err := l.loadManifest(p, info)
			if err != nil {
				l.logger.Warn("skipping manifest",
					zap.String("path", p),
					zap.Error(err),
				)
				return nil
			}

			l.discovered[meta.Name] = meta
			found = append(found, meta)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
		}
	}

	if l.cache != nil {
		if err := l.cache.save(); err != nil {
			l.logger.Warn("failed to save discovery cache", zap.Error(err))
		}
	}

	return found, nil
}

// loadManifest parses and validates one manifest file, consulting the
// discovery cache first.
func (l *Loader) loadManifest(path string, info os.FileInfo) (*manifest.Metadata, error) {
	if l.cache != nil {
		if meta, ok := l.cache.get(path, info.ModTime()); ok {
			return meta, nil
		}
	}

	meta, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(meta); err != nil {
		return nil, fmt.Errorf("invalid plugin metadata: %w", err)
	}

	if l.cache != nil {
		l.cache.put(path, info.ModTime(), meta)
	}
	return meta, nil
}

// Load loads a plugin from a manifest file, a plugin directory, or a .wasm
// binary with a manifest beside it.
func (l *Loader) Load(ctx context.Context, path string, opts ...Option) (*Plugin, error) {
	manifestPath, err := resolveManifestPath(path)
	if err != nil {
		return nil, err
	}

	meta, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	return l.LoadFromMetadata(ctx, meta, opts...)
}

// LoadFromMetadata loads a plugin's guest module using its manifest.
func (l *Loader) LoadFromMetadata(ctx context.Context, meta *manifest.Metadata, opts ...Option) (*Plugin, error) {
	if err := manifest.Validate(meta); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}

	if meta.Runtime != "wasm" {
		return nil, fmt.Errorf("unsupported runtime: %s", meta.Runtime)
	}

	wasmBytes, err := os.ReadFile(meta.Binary) // nolint:gosec // path resolved from a validated manifest
	if err != nil {
		return nil, fmt.Errorf("failed to read module binary: %w", err)
	}

	return Open(ctx, wasmBytes, meta, opts...)
}

// resolveManifestPath maps a user-supplied path onto its manifest file.
func resolveManifestPath(path string) (string, error) {
	if strings.HasSuffix(path, "manifest.yaml") || strings.HasSuffix(path, "manifest.json") {
		return path, nil
	}

	dir := path
	if strings.HasSuffix(path, ".wasm") {
		dir = filepath.Dir(path)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("failed to stat path: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("unable to load plugin from path: %s", path)
		}
	}

	for _, name := range []string{"manifest.yaml", "manifest.json"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no manifest found in %s", dir)
}
