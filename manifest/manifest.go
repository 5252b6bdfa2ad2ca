// Package manifest defines the plugin's static self-description: identity,
// exported node types with their JSON schemas, and declared resource limits.
// The document is what the describe boundary call serializes for the host.
package manifest

// Metadata is the capability descriptor for one plugin.
type Metadata struct {
	// Basic info
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	License     string `json:"license,omitempty" yaml:"license,omitempty"`

	// Runtime requirements
	Runtime string `json:"runtime" yaml:"runtime"` // "wasm"
	Binary  string `json:"binary" yaml:"binary"`   // path to the .wasm file

	// Node declarations
	Nodes []NodeDefinition `json:"nodes" yaml:"nodes"`

	// Declared resource limits (enforced by the host, not the guest)
	Permissions Permissions `json:"permissions,omitempty" yaml:"permissions,omitempty"`

	// Host version requirements
	Requirements Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// NodeDefinition declares a node type exported by the plugin, with its
// config/input/output shapes as JSON Schema documents.
type NodeDefinition struct {
	Type         string                 `json:"type" yaml:"type"`
	Category     string                 `json:"category" yaml:"category"`
	Description  string                 `json:"description" yaml:"description"`
	ConfigSchema map[string]interface{} `json:"configSchema,omitempty" yaml:"configSchema,omitempty"`
	InputSchema  map[string]interface{} `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
	OutputSchema map[string]interface{} `json:"outputSchema,omitempty" yaml:"outputSchema,omitempty"`
}

// Permissions declares the resource ceiling the plugin runs under.
type Permissions struct {
	// Memory is the linear-memory ceiling, e.g. "5MB"
	Memory string `json:"memory,omitempty" yaml:"memory,omitempty"`

	// Timeout is the per-call wall-clock limit in milliseconds
	Timeout int `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Env lists environment variable names the plugin may see
	Env []string `json:"env,omitempty" yaml:"env,omitempty"`

	// Filesystem lists directories the plugin may be granted
	Filesystem []string `json:"filesystem,omitempty" yaml:"filesystem,omitempty"`
}

// Requirements pins minimum host versions.
type Requirements struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
}

// New creates a manifest with the required identity fields.
func New(name, version, description string) *Metadata {
	return &Metadata{
		Name:        name,
		Version:     version,
		Description: description,
		Runtime:     "wasm",
	}
}

// WithAuthor sets the author.
func (m *Metadata) WithAuthor(author string) *Metadata {
	m.Author = author
	return m
}

// WithLicense sets the license identifier.
func (m *Metadata) WithLicense(license string) *Metadata {
	m.License = license
	return m
}

// WithBinary sets the binary path advertised to loaders.
func (m *Metadata) WithBinary(binary string) *Metadata {
	m.Binary = binary
	return m
}

// WithNode appends a node declaration.
func (m *Metadata) WithNode(node NodeDefinition) *Metadata {
	m.Nodes = append(m.Nodes, node)
	return m
}

// WithPermissions sets the declared resource limits.
func (m *Metadata) WithPermissions(p Permissions) *Metadata {
	m.Permissions = p
	return m
}

// WithRequirements sets the host version requirements.
func (m *Metadata) WithRequirements(r Requirements) *Metadata {
	m.Requirements = r
	return m
}

// Node returns the declaration for a node type, or nil if not declared.
func (m *Metadata) Node(nodeType string) *NodeDefinition {
	for i := range m.Nodes {
		if m.Nodes[i].Type == nodeType {
			return &m.Nodes[i]
		}
	}
	return nil
}
