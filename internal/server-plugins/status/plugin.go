package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/birdnet-go/birdnet-mcp/internal/health"
	serverDomain "github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/birdnet-go/birdnet-mcp/internal/snapshot"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusServerPlugin exposes the reconciled state of the managed
// instance: engine, unit, container and application health.
type StatusServerPlugin struct {
	poller       *snapshot.Poller
	store        *snapshot.Store
	healthClient *health.Client
	logger       *slog.Logger
}

func NewStatusServerPlugin(poller *snapshot.Poller, store *snapshot.Store, healthClient *health.Client, logger *slog.Logger) serverDomain.ServerPlugin {
	return &StatusServerPlugin{
		poller:       poller,
		store:        store,
		healthClient: healthClient,
		logger:       logger,
	}
}

func (p *StatusServerPlugin) ID() string {
	return "status"
}

func (p *StatusServerPlugin) Name() string {
	return "Instance Status"
}

func (p *StatusServerPlugin) Description() string {
	return "Reconciled status of the managed BirdNET-Go instance: container engine, systemd unit, container and application health"
}

func (p *StatusServerPlugin) Version() string {
	return "0.1.0"
}

func (p *StatusServerPlugin) RequiredBackend() string {
	return "" // Works with whatever subset of backends exists
}

// ResourceProvider implementation
func (p *StatusServerPlugin) GetResources(ctx context.Context) ([]serverDomain.Resource, error) {
	return []serverDomain.Resource{
		{
			URI:         "birdnet://status",
			Name:        "Instance Status",
			Description: "Latest status snapshot of the managed instance",
			MIMEType:    "application/json",
			Handler:     p.handleStatusResource,
		},
		{
			URI:         "birdnet://health",
			Name:        "Application Health",
			Description: "Raw health payload reported by the application",
			MIMEType:    "application/json",
			Handler:     p.handleHealthResource,
		},
	}, nil
}

func (p *StatusServerPlugin) handleStatusResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	status := p.store.Status()

	jsonData, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func (p *StatusServerPlugin) handleHealthResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	healthStatus := p.healthClient.Check(ctx)
	if healthStatus == nil {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     `{"status": "no health data"}`,
			},
		}, nil
	}

	jsonData, err := json.MarshalIndent(healthStatus, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize health payload: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// ToolProvider implementation
func (p *StatusServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "get_status",
			Description: "Get the reconciled status of the managed BirdNET-Go instance",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"get_status",
					mcp.WithDescription("Get the reconciled status of the managed BirdNET-Go instance, including container engine, systemd unit, container and health state"),
				)
			},
			Handler: p.handleGetStatusTool,
		},
		{
			Name:        "get_health",
			Description: "Fetch the application's health endpoint payload",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"get_health",
					mcp.WithDescription("Fetch the raw payload of the application's /api/v2/health endpoint"),
				)
			},
			Handler: p.handleGetHealthTool,
		},
	}, nil
}

func (p *StatusServerPlugin) handleGetStatusTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// A tool call deserves fresh state, not the age of the last tick.
	status := p.poller.Refresh(ctx)
	return serverDomain.JSONToolResult(status)
}

func (p *StatusServerPlugin) handleGetHealthTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	healthStatus := p.healthClient.Check(ctx)
	if healthStatus == nil {
		return serverDomain.TextToolResult("no health data"), nil
	}
	return serverDomain.JSONToolResult(healthStatus)
}
