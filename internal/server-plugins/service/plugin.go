package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	serverDomain "github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"github.com/mark3labs/mcp-go/mcp"
)

var serviceActions = map[string]bool{
	"start":   true,
	"stop":    true,
	"restart": true,
	"enable":  true,
	"disable": true,
}

// ServiceServerPlugin controls the managing systemd unit. It is only
// active when the unit actually exists on the host; while it does, the
// unit is the authoritative control surface for the instance.
type ServiceServerPlugin struct {
	runner       hostexec.Runner
	systemdProbe *probe.SystemdProbe
	unitName     string
	logger       *slog.Logger
}

func NewServiceServerPlugin(runner hostexec.Runner, systemdProbe *probe.SystemdProbe, instance config.InstanceConfig, logger *slog.Logger) serverDomain.ServerPlugin {
	return &ServiceServerPlugin{
		runner:       runner,
		systemdProbe: systemdProbe,
		unitName:     instance.UnitName,
		logger:       logger,
	}
}

func (p *ServiceServerPlugin) ID() string {
	return "service"
}

func (p *ServiceServerPlugin) Name() string {
	return "Service Control"
}

func (p *ServiceServerPlugin) Description() string {
	return "Start, stop, restart and enable the systemd unit managing the BirdNET-Go instance"
}

func (p *ServiceServerPlugin) Version() string {
	return "0.1.0"
}

func (p *ServiceServerPlugin) RequiredBackend() string {
	return serverDomain.BackendSystemd
}

// ToolProvider implementation
func (p *ServiceServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "service_control",
			Description: "Control the systemd unit managing the instance",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"service_control",
					mcp.WithDescription("Control the systemd unit managing the BirdNET-Go instance"),
					mcp.WithString("action",
						mcp.Required(),
						mcp.Description("One of: start, stop, restart, enable, disable"),
					),
				)
			},
			Handler: p.handleServiceControlTool,
		},
	}, nil
}

func (p *ServiceServerPlugin) handleServiceControlTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := req.RequireString("action")
	if err != nil {
		return serverDomain.ErrorToolResult(fmt.Sprintf("Missing action: %v", err)), nil
	}

	if !serviceActions[action] {
		return serverDomain.ErrorToolResult(fmt.Sprintf("Unsupported action: %s", action)), nil
	}

	status := p.systemdProbe.Probe(ctx)
	if !status.Exists {
		return serverDomain.ErrorToolResult(fmt.Sprintf("Unit %s does not exist on this host", p.unitName)), nil
	}

	if _, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "systemctl",
		Args:    []string{action, p.unitName},
		Elevate: true,
	}); err != nil {
		p.logger.Error("Service control action failed", "action", action, "unit", p.unitName, "error", err)
		return serverDomain.ErrorToolResult(fmt.Sprintf("Failed to %s %s", action, p.unitName)), nil
	}

	return serverDomain.TextToolResult(fmt.Sprintf("%s: %s succeeded", p.unitName, action)), nil
}
