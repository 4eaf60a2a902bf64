package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/shared"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

// devContainerPrefixes mark editor/dev-container images that must never
// be mistaken for the managed instance.
var devContainerPrefixes = []string{"vsc-", "birdnet-go-dev"}

// HealthQuickChecker is the short-timeout health probe used while
// scanning container state. A nil result means no health data.
type HealthQuickChecker interface {
	QuickCheck(ctx context.Context) *shared.HealthStatus
}

// ContainerProbe reconciles the engine's view of the managed container
// with the application's own health endpoint. The health endpoint is
// ground truth: when it answers healthy or degraded the instance is
// running, whatever the engine claims.
type ContainerProbe struct {
	runner   hostexec.Runner
	health   HealthQuickChecker
	instance config.InstanceConfig
	logger   *slog.Logger
}

func NewContainerProbe(runner hostexec.Runner, health HealthQuickChecker, instance config.InstanceConfig, logger *slog.Logger) *ContainerProbe {
	return &ContainerProbe{runner: runner, health: health, instance: instance, logger: logger}
}

func (p *ContainerProbe) Probe(ctx context.Context, docker shared.DockerStatus) shared.ContainerStatus {
	var status shared.ContainerStatus

	if docker.Available {
		status = p.scanContainers(ctx)
		status.ImagePresent = p.imagePresent(ctx)
	}

	health := p.health.QuickCheck(ctx)
	if health.Healthy() {
		if !status.Running {
			status.Status = fmt.Sprintf("running (health: %s)", health.Status)
		}
		status.Running = true
	}

	return status
}

func (p *ContainerProbe) scanContainers(ctx context.Context) shared.ContainerStatus {
	out, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"ps", "-a", "--format", "{{.ID}}\t{{.Image}}\t{{.Names}}\t{{.Status}}"},
		Timeout: probeTimeout,
	})
	if err != nil {
		p.logger.Debug("Container listing failed", "error", err)
		return shared.ContainerStatus{}
	}

	for _, line := range hostexec.ParseLines(out) {
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) != 4 {
			continue
		}
		id, image, name, state := parts[0], parts[1], parts[2], parts[3]

		if !p.matchesInstance(image, name) {
			continue
		}

		return shared.ContainerStatus{
			Exists:      true,
			Running:     strings.HasPrefix(state, "Up"),
			ContainerID: id,
			Status:      state,
		}
	}

	return shared.ContainerStatus{}
}

func (p *ContainerProbe) imagePresent(ctx context.Context) bool {
	out, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"images", "--format", "{{.Repository}}:{{.Tag}}"},
		Timeout: probeTimeout,
	})
	if err != nil {
		return false
	}

	for _, line := range hostexec.ParseLines(out) {
		if strings.HasPrefix(line, p.instance.ImagePrefix) && !isDevContainerImage(line) {
			return true
		}
	}
	return false
}

func (p *ContainerProbe) matchesInstance(image, name string) bool {
	if isDevContainerImage(image) {
		return false
	}
	return strings.HasPrefix(image, p.instance.ImagePrefix) || name == p.instance.ContainerName
}

func isDevContainerImage(image string) bool {
	base := image
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	for _, prefix := range devContainerPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
