package logs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	instancelogs "github.com/birdnet-go/birdnet-mcp/internal/logs"
	serverDomain "github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/birdnet-go/birdnet-mcp/internal/snapshot"
	"github.com/birdnet-go/birdnet-mcp/pkg/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// LogsServerPlugin serves the three log surfaces: the container's
// engine logs, the application's structured log file, and this
// server's own recent log lines.
type LogsServerPlugin struct {
	store            *snapshot.Store
	containerFetcher *instancelogs.ContainerLogFetcher
	appFetcher       *instancelogs.AppLogFetcher
	serverBuffer     *logger.RingBuffer
	logger           *slog.Logger
}

func NewLogsServerPlugin(
	store *snapshot.Store,
	containerFetcher *instancelogs.ContainerLogFetcher,
	appFetcher *instancelogs.AppLogFetcher,
	serverBuffer *logger.RingBuffer,
	slogger *slog.Logger,
) serverDomain.ServerPlugin {
	return &LogsServerPlugin{
		store:            store,
		containerFetcher: containerFetcher,
		appFetcher:       appFetcher,
		serverBuffer:     serverBuffer,
		logger:           slogger,
	}
}

func (p *LogsServerPlugin) ID() string {
	return "logs"
}

func (p *LogsServerPlugin) Name() string {
	return "Log Access"
}

func (p *LogsServerPlugin) Description() string {
	return "Container, application and server logs for the managed BirdNET-Go instance"
}

func (p *LogsServerPlugin) Version() string {
	return "0.1.0"
}

func (p *LogsServerPlugin) RequiredBackend() string {
	return "" // Server logs are always available; the rest degrades
}

// ResourceProvider implementation
func (p *LogsServerPlugin) GetResources(ctx context.Context) ([]serverDomain.Resource, error) {
	return []serverDomain.Resource{
		{
			URI:         "birdnet://logs/container",
			Name:        "Container Logs",
			Description: "Latest engine log tail of the managed container",
			MIMEType:    "text/plain",
			Handler:     p.handleContainerLogsResource,
		},
		{
			URI:         "birdnet://logs/app",
			Name:        "Application Logs",
			Description: "Latest structured application log entries, newest first",
			MIMEType:    "application/json",
			Handler:     p.handleAppLogsResource,
		},
		{
			URI:         "birdnet://logs/server",
			Name:        "Server Logs",
			Description: "Recent log lines of this management server",
			MIMEType:    "text/plain",
			Handler:     p.handleServerLogsResource,
		},
	}, nil
}

func (p *LogsServerPlugin) handleContainerLogsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lines := p.store.ContainerLogs()
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(lines, "\n"),
		},
	}, nil
}

func (p *LogsServerPlugin) handleAppLogsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries := p.store.AppLogs()

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize application logs: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func (p *LogsServerPlugin) handleServerLogsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lines := p.serverBuffer.GetLast(0)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(lines, "\n"),
		},
	}, nil
}

// ToolProvider implementation
func (p *LogsServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "get_container_logs",
			Description: "Tail the managed container's engine logs",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"get_container_logs",
					mcp.WithDescription("Fetch the latest engine log tail of the managed BirdNET-Go container"),
				)
			},
			Handler: p.handleGetContainerLogsTool,
		},
		{
			Name:        "get_app_logs",
			Description: "Tail and filter the application's structured logs",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"get_app_logs",
					mcp.WithDescription("Fetch the latest structured application log entries, newest first, optionally filtered"),
					mcp.WithString("level",
						mcp.Description("Only entries with this exact level (e.g. INFO, WARN, ERROR); empty or 'all' disables the filter"),
					),
					mcp.WithString("search",
						mcp.Description("Case-insensitive substring matched against the full serialized entry"),
					),
				)
			},
			Handler: p.handleGetAppLogsTool,
		},
	}, nil
}

func (p *LogsServerPlugin) handleGetContainerLogsTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Tool calls fetch live rather than serving a poller-aged snapshot.
	lines := p.containerFetcher.Fetch(ctx)
	p.store.SetContainerLogs(lines)
	return serverDomain.TextToolResult(strings.Join(lines, "\n")), nil
}

func (p *LogsServerPlugin) handleGetAppLogsTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := req.GetString("level", "")
	search := req.GetString("search", "")

	entries := p.appFetcher.Fetch(ctx)
	p.store.SetAppLogs(entries)

	filtered := instancelogs.Filter(entries, level, search)
	return serverDomain.JSONToolResult(filtered)
}
