package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Parse decodes a manifest document. The YAML parser handles both YAML and
// JSON manifests, so manifest.yaml and manifest.json go through the same path.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses a manifest file, resolving the binary path relative
// to the manifest's directory.
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path) // nolint:gosec // path comes from discovery
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if m.Binary != "" && !filepath.IsAbs(m.Binary) {
		m.Binary = filepath.Join(filepath.Dir(path), m.Binary)
	}

	return m, nil
}

// Validate checks the fields every loadable manifest must carry.
func Validate(m *Metadata) error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Runtime == "" {
		return fmt.Errorf("plugin runtime is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary is required")
	}
	if len(m.Nodes) == 0 {
		return fmt.Errorf("plugin must export at least one node")
	}

	for _, node := range m.Nodes {
		if node.Type == "" {
			return fmt.Errorf("node type is required")
		}
		if node.Category == "" {
			return fmt.Errorf("node category is required for type %s", node.Type)
		}
		if node.Description == "" {
			return fmt.Errorf("node description is required for type %s", node.Type)
		}
	}

	return nil
}
