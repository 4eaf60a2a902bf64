package server

import (
	"log/slog"

	plugins "github.com/birdnet-go/birdnet-mcp/internal/server-plugin/application"
	"github.com/birdnet-go/birdnet-mcp/internal/server-plugin/infrastructure"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

// NewMCPServerInstance creates a new MCP server instance.
func NewMCPServerInstance(cfg *config.ServerConfig, logger *slog.Logger) *server.MCPServer {
	logger.Debug("Creating MCP server instance")
	version := "dev"
	mcpServer := server.NewMCPServer(
		"BirdNET-Go MCP Server",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
	)
	logger.Debug("MCP server instance created successfully")
	return mcpServer
}

var Module = fx.Module("server",
	fx.Provide(
		NewMCPServerInstance,
		plugins.NewServerPluginRegistry,
		fx.Annotate(
			func(dynamicRegistry *plugins.DynamicServerPluginRegistry, mcpServer *server.MCPServer, logger *slog.Logger) *MCPAdapter {
				return NewMCPAdapter(dynamicRegistry, mcpServer, logger)
			},
		),
		infrastructure.NewBackendDiscoveryService,
		plugins.NewDynamicServerPluginRegistry,
	),
	fx.Invoke(registerServerHooks),
	fx.Invoke(func(registry *plugins.DynamicServerPluginRegistry, lc fx.Lifecycle) {
		registry.RegisterHooks(lc)
	}),
)
