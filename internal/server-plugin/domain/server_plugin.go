package domain

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Backend names a host facility a plugin depends on.
const (
	BackendDocker  = "docker"
	BackendSystemd = "systemd"
)

// ServerPlugin represents the unified plugin interface.
// Each plugin only needs to provide its basic information and capabilities.
type ServerPlugin interface {
	ID() string
	Name() string
	Description() string
	Version() string

	// Optional dependency on a host backend (empty string means always active)
	RequiredBackend() string
}

// ResourceProvider defines plugins that can provide resources
type ResourceProvider interface {
	ServerPlugin
	GetResources(ctx context.Context) ([]Resource, error)
}

// ToolProvider defines plugins that can provide tools
type ToolProvider interface {
	ServerPlugin
	GetTools(ctx context.Context) ([]Tool, error)
}

// Resource represents a plugin resource capability
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Handler     ResourceHandler
}

// Tool represents a plugin tool capability
type Tool struct {
	Name        string
	Description string
	Builder     func() mcp.Tool
	Handler     ToolHandler
}

// Handler type aliases - properly reference MCP server types
type ResourceHandler = server.ResourceHandlerFunc
type ToolHandler = server.ToolHandlerFunc

// BackendDiscoveryService reports which host backends are present, so
// the registry can gate plugins on them.
type BackendDiscoveryService interface {
	AvailableBackends(ctx context.Context) ([]string, error)
}
