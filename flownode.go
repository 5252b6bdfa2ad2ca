// Package flownode provides flat re-exports of the module's subpackages: the
// wire envelope, the guest runtime, the manifest types, and the wazero host.
package flownode

import (
	"github.com/machinefabric/flownode-go/guest"
	"github.com/machinefabric/flownode-go/host"
	"github.com/machinefabric/flownode-go/manifest"
	"github.com/machinefabric/flownode-go/mem"
	"github.com/machinefabric/flownode-go/wire"
)

// Wire envelope types and codec
type Request = wire.Request
type Response = wire.Response
type Function = wire.Function

var (
	DecodeRequest  = wire.DecodeRequest
	EncodeRequest  = wire.EncodeRequest
	EncodeResponse = wire.EncodeResponse
	DecodeResponse = wire.DecodeResponse
	ParseFunction  = wire.ParseFunction
)

// Guest runtime
type Runtime = guest.Runtime
type Node = guest.Node

var NewRuntime = guest.New

// Memory arena
type Arena = mem.Arena

var NewArena = mem.New

// Manifest types
type Metadata = manifest.Metadata
type NodeDefinition = manifest.NodeDefinition
type Permissions = manifest.Permissions
type Requirements = manifest.Requirements

var (
	NewMetadata      = manifest.New
	LoadManifest     = manifest.Load
	ParseManifest    = manifest.Parse
	ValidateManifest = manifest.Validate
)

// Host side
type Plugin = host.Plugin
type Loader = host.Loader
type Registry = host.Registry

var (
	OpenPlugin  = host.Open
	NewLoader   = host.NewLoader
	NewRegistry = host.NewRegistry
)
