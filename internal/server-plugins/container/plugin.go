package container

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	serverDomain "github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"github.com/mark3labs/mcp-go/mcp"
)

var containerActions = map[string]bool{
	"start":   true,
	"stop":    true,
	"restart": true,
	"create":  true,
}

// ContainerServerPlugin controls the standalone container directly.
// When the systemd unit exists it refuses every mutation: the unit owns
// the container lifecycle and direct engine operations would fight it.
type ContainerServerPlugin struct {
	runner         hostexec.Runner
	dockerProbe    *probe.DockerProbe
	systemdProbe   *probe.SystemdProbe
	containerProbe *probe.ContainerProbe
	instance       config.InstanceConfig
	logger         *slog.Logger
}

func NewContainerServerPlugin(
	runner hostexec.Runner,
	dockerProbe *probe.DockerProbe,
	systemdProbe *probe.SystemdProbe,
	containerProbe *probe.ContainerProbe,
	instance config.InstanceConfig,
	logger *slog.Logger,
) serverDomain.ServerPlugin {
	return &ContainerServerPlugin{
		runner:         runner,
		dockerProbe:    dockerProbe,
		systemdProbe:   systemdProbe,
		containerProbe: containerProbe,
		instance:       instance,
		logger:         logger,
	}
}

func (p *ContainerServerPlugin) ID() string {
	return "container"
}

func (p *ContainerServerPlugin) Name() string {
	return "Container Control"
}

func (p *ContainerServerPlugin) Description() string {
	return "Start, stop, restart or create the standalone BirdNET-Go container"
}

func (p *ContainerServerPlugin) Version() string {
	return "0.1.0"
}

func (p *ContainerServerPlugin) RequiredBackend() string {
	return serverDomain.BackendDocker
}

// ToolProvider implementation
func (p *ContainerServerPlugin) GetTools(ctx context.Context) ([]serverDomain.Tool, error) {
	return []serverDomain.Tool{
		{
			Name:        "container_control",
			Description: "Control the standalone BirdNET-Go container",
			Builder: func() mcp.Tool {
				return mcp.NewTool(
					"container_control",
					mcp.WithDescription("Control the standalone BirdNET-Go container (refused when a systemd unit manages the instance)"),
					mcp.WithString("action",
						mcp.Required(),
						mcp.Description("One of: start, stop, restart, create"),
					),
				)
			},
			Handler: p.handleContainerControlTool,
		},
	}, nil
}

func (p *ContainerServerPlugin) handleContainerControlTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := req.RequireString("action")
	if err != nil {
		return serverDomain.ErrorToolResult(fmt.Sprintf("Missing action: %v", err)), nil
	}

	if !containerActions[action] {
		return serverDomain.ErrorToolResult(fmt.Sprintf("Unsupported action: %s", action)), nil
	}

	// When a unit exists it is the authority; container mutations are
	// refused outright, not just discouraged.
	if p.systemdProbe.Probe(ctx).Exists {
		return serverDomain.ErrorToolResult(fmt.Sprintf("Instance is managed by %s; use service_control instead", p.instance.UnitName)), nil
	}

	docker := p.dockerProbe.Probe(ctx)
	if !docker.Available || !docker.Running {
		return serverDomain.ErrorToolResult("Container engine is not available or not running"), nil
	}

	container := p.containerProbe.Probe(ctx, docker)

	if action == "create" {
		if container.Exists {
			return serverDomain.ErrorToolResult(fmt.Sprintf("Container %s already exists", p.instance.ContainerName)), nil
		}
		return p.createContainer(ctx)
	}

	if !container.Exists {
		return serverDomain.ErrorToolResult(fmt.Sprintf("No container found for %s", p.instance.ContainerName)), nil
	}

	target := container.ContainerID
	if target == "" {
		target = p.instance.ContainerName
	}

	if _, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{action, target},
		Elevate: true,
	}); err != nil {
		p.logger.Error("Container control action failed", "action", action, "container", target, "error", err)
		return serverDomain.ErrorToolResult(fmt.Sprintf("Failed to %s container", action)), nil
	}

	return serverDomain.TextToolResult(fmt.Sprintf("Container %s: %s succeeded", p.instance.ContainerName, action)), nil
}

func (p *ContainerServerPlugin) createContainer(ctx context.Context) (*mcp.CallToolResult, error) {
	image := p.instance.ImagePrefix + ":latest"
	port := strconv.Itoa(p.instance.HealthPort)

	args := []string{
		"run", "-d",
		"--name", p.instance.ContainerName,
		"--restart", "unless-stopped",
		"-p", port + ":8080",
		image,
	}

	if _, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    args,
		Elevate: true,
	}); err != nil {
		p.logger.Error("Container creation failed", "image", image, "error", err)
		return serverDomain.ErrorToolResult("Failed to create container"), nil
	}

	return serverDomain.TextToolResult(fmt.Sprintf("Container %s created from %s", p.instance.ContainerName, image)), nil
}
