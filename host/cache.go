package host

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/machinefabric/flownode-go/manifest"
)

// cacheDecMode decodes untyped maps as map[string]interface{} so cached
// schema documents stay JSON-encodable after a round trip.
var cacheDecMode, _ = cbor.DecOptions{
	DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
}.DecMode()

// cacheEntry is one cached manifest, keyed by file path and invalidated by
// modification time.
type cacheEntry struct {
	ModTime int64             `cbor:"mod_time"`
	Meta    manifest.Metadata `cbor:"meta"`
}

// discoveryCache persists parsed manifests between discovery runs as a single
// CBOR document on disk.
type discoveryCache struct {
	path    string
	entries map[string]cacheEntry
}

func newDiscoveryCache(path string) *discoveryCache {
	return &discoveryCache{
		path:    path,
		entries: make(map[string]cacheEntry),
	}
}

// load reads the cache file. A missing file is an empty cache; a corrupt file
// is discarded and rebuilt on the next save.
func (c *discoveryCache) load() error {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	var entries map[string]cacheEntry
	if err := cacheDecMode.Unmarshal(data, &entries); err != nil {
		c.entries = make(map[string]cacheEntry)
		return fmt.Errorf("discarding corrupt cache: %w", err)
	}

	c.entries = entries
	return nil
}

// save writes the cache file, creating parent directories as needed.
func (c *discoveryCache) save() error {
	data, err := cbor.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// get returns the cached manifest for path if the file has not changed since
// it was cached.
func (c *discoveryCache) get(path string, modTime time.Time) (*manifest.Metadata, bool) {
	entry, ok := c.entries[path]
	if !ok || entry.ModTime != modTime.UnixNano() {
		return nil, false
	}
	meta := entry.Meta
	return &meta, true
}

// put caches a manifest for path at the given modification time.
func (c *discoveryCache) put(path string, modTime time.Time, meta *manifest.Metadata) {
	c.entries[path] = cacheEntry{
		ModTime: modTime.UnixNano(),
		Meta:    *meta,
	}
}
