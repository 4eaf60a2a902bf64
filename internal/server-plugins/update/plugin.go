package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/birdnet-go/birdnet-mcp/internal/health"
	serverDomain "github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/birdnet-go/birdnet-mcp/internal/upgrade"
	"github.com/birdnet-go/birdnet-mcp/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateServerPlugin checks for and applies newer builds of the managed
// instance. Stable builds follow GitHub releases, nightly builds follow
// the dated tags in the container registry.
type UpdateServerPlugin struct {
	reconciler   *version.Reconciler
	orchestrator *upgrade.Orchestrator
	healthClient *health.Client
	logger       *slog.Logger
}

func NewUpdateServerPlugin(
	reconciler *version.Reconciler,
	orchestrator *upgrade.Orchestrator,
	healthClient *health.Client,
	logger *slog.Logger,
) serverDomain.ServerPlugin {
	return &UpdateServerPlugin{
		reconciler:   reconciler,
		orchestrator: orchestrator,
		healthClient: healthClient,
		logger:       logger,
	}
}

func (p *UpdateServerPlugin) ID() string {
	return "update"
}

func (p *UpdateServerPlugin) Name() string {
	return "Update Management"
}

func (p *UpdateServerPlugin) Description() string {
	return "Check for and apply newer BirdNET-Go builds"
}

func (p *UpdateServerPlugin) Version() string {
	return "0.1.0"
}

func (p *UpdateServerPlugin) RequiredBackend() string {
	return serverDomain.BackendDocker
}

// ResourceProvider implementation
func (p *UpdateServerPlugin) GetResources(ctx context.Context) ([]serverDomain.Resource, error) {
	return []serverDomain.Resource{
		{
			URI:         "birdnet://version",
			Name:        "Version Information",
			Description: "Accumulated version and update information for the managed instance",
			MIMEType:    "application/json",
			Handler:     p.handleVersionResource,
		},
	}, nil
}

func (p *UpdateServerPlugin) handleVersionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	info := p.reconciler.Info()

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize version information: %w", err)
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
func (p *UpdateServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "check_update",
			Description: "Check whether a newer build is available",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"check_update",
					mcp.WithDescription("Check whether a newer BirdNET-Go build is available for the running version"),
				)
			},
			Handler: p.handleCheckUpdateTool,
		},
		{
			Name:        "upgrade",
			Description: "Upgrade the managed instance to the latest build",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"upgrade",
					mcp.WithDescription("Pull the newest image and restart or recreate the managed BirdNET-Go instance. There is no rollback."),
					mcp.WithBoolean("nightly",
						mcp.Description("Follow the nightly channel instead of stable releases"),
					),
				)
			},
			Handler: p.handleUpgradeTool,
		},
	}, nil
}

func (p *UpdateServerPlugin) handleCheckUpdateTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, buildDate := "", ""
	if h := p.healthClient.Check(ctx); h != nil {
		current = h.Version
		buildDate = h.BuildDate
	}

	info := p.reconciler.Check(ctx, current, buildDate)
	return serverDomain.JSONToolResult(info)
}

func (p *UpdateServerPlugin) handleUpgradeTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nightly := req.GetBool("nightly", false)

	// Without a recent check the tag resolution falls back to the
	// channel alias, so refresh first when possible.
	if h := p.healthClient.Check(ctx); h != nil {
		p.reconciler.Check(ctx, h.Version, h.BuildDate)
	}

	tag := p.orchestrator.ResolveTag(nightly)
	p.logger.Info("Upgrade requested", "nightly", nightly, "tag", tag)

	if err := p.orchestrator.Upgrade(ctx, nightly); err != nil {
		p.logger.Error("Upgrade failed", "tag", tag, "error", err)
		return serverDomain.ErrorToolResult(fmt.Sprintf("Upgrade to %s failed: %v", tag, err)), nil
	}

	return serverDomain.TextToolResult(fmt.Sprintf("Upgrade to %s completed", tag)), nil
}
