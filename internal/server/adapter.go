package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DynamicServerPluginProvider provides access to only active plugins
type DynamicServerPluginProvider interface {
	GetActiveServerPlugins() []domain.ServerPlugin
}

// MCPAdapter bridges between our plugin system and the MCP server.
// Single responsibility: Adapt plugin capabilities to MCP server registration.
type MCPAdapter struct {
	dynamicRegistry DynamicServerPluginProvider
	mcpServer       *server.MCPServer
	logger          *slog.Logger
}

// NewMCPAdapter creates a new MCP adapter using the dynamic registry
func NewMCPAdapter(dynamicRegistry DynamicServerPluginProvider, mcpServer *server.MCPServer, logger *slog.Logger) *MCPAdapter {
	return &MCPAdapter{
		dynamicRegistry: dynamicRegistry,
		mcpServer:       mcpServer,
		logger:          logger,
	}
}

// GetResourceProviders returns resource providers from active plugins only
func (a *MCPAdapter) GetResourceProviders() []domain.ResourceProvider {
	var providers []domain.ResourceProvider
	for _, plugin := range a.dynamicRegistry.GetActiveServerPlugins() {
		if provider, ok := plugin.(domain.ResourceProvider); ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// GetToolProviders returns tool providers from active plugins only
func (a *MCPAdapter) GetToolProviders() []domain.ToolProvider {
	var providers []domain.ToolProvider
	for _, plugin := range a.dynamicRegistry.GetActiveServerPlugins() {
		if provider, ok := plugin.(domain.ToolProvider); ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// RegisterAllServerPlugins registers all plugins from the registry with the MCP server
func (a *MCPAdapter) RegisterAllServerPlugins(ctx context.Context) error {
	a.logger.Info("Registering all plugins with MCP server")

	if err := a.registerResources(ctx); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}

	if err := a.registerTools(ctx); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	a.logger.Info("All plugins registered successfully")
	return nil
}

func (a *MCPAdapter) registerResources(ctx context.Context) error {
	providers := a.GetResourceProviders()
	a.logger.Debug("Starting resource registration", "provider_count", len(providers))

	for _, provider := range providers {
		resources, err := provider.GetResources(ctx)
		if err != nil {
			a.logger.Error("Failed to get resources from provider",
				"plugin", provider.ID(), "error", err)
			continue
		}

		for _, resource := range resources {
			mcpResource := mcp.NewResource(
				resource.URI,
				resource.Name,
				mcp.WithResourceDescription(resource.Description),
				mcp.WithMIMEType(resource.MIMEType),
			)

			a.mcpServer.AddResource(mcpResource, resource.Handler)
			a.logger.Debug("Resource registered",
				"plugin", provider.ID(),
				"resource", resource.Name,
				"uri", resource.URI)
		}
	}

	return nil
}

func (a *MCPAdapter) registerTools(ctx context.Context) error {
	providers := a.GetToolProviders()
	a.logger.Debug("Starting tool registration", "provider_count", len(providers))

	for _, provider := range providers {
		tools, err := provider.GetTools(ctx)
		if err != nil {
			a.logger.Error("Failed to get tools from provider",
				"plugin", provider.ID(), "error", err)
			continue
		}

		for _, tool := range tools {
			mcpTool := tool.Builder()

			a.mcpServer.AddTool(mcpTool, tool.Handler)
			a.logger.Debug("Tool registered",
				"plugin", provider.ID(),
				"tool", tool.Name)
		}
	}

	return nil
}
