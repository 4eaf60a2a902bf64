package probe

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/shared"
)

const probeTimeout = 5 * time.Second

// DockerProbe checks whether the container engine is installed and its
// daemon is answering. It never returns an error: any failure collapses
// to the fully-degraded default record.
type DockerProbe struct {
	runner hostexec.Runner
	logger *slog.Logger
}

func NewDockerProbe(runner hostexec.Runner, logger *slog.Logger) *DockerProbe {
	return &DockerProbe{runner: runner, logger: logger}
}

func (p *DockerProbe) Probe(ctx context.Context) shared.DockerStatus {
	out, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"--version"},
		Timeout: probeTimeout,
	})
	if err != nil {
		p.logger.Debug("Docker binary not usable", "error", err)
		return shared.DockerStatus{}
	}

	status := shared.DockerStatus{
		Available: true,
		Version:   parseDockerVersion(string(out)),
	}

	active, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "systemctl",
		Args:    []string{"is-active", "docker"},
		Timeout: probeTimeout,
	})
	if err == nil && strings.TrimSpace(string(active)) == "active" {
		status.Running = true
		return status
	}

	// Hosts without systemd (or with a socket-activated daemon) still
	// answer docker info when the engine is up.
	if _, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"info", "--format", "{{.ServerVersion}}"},
		Timeout: probeTimeout,
	}); err == nil {
		status.Running = true
	} else {
		p.logger.Debug("Docker daemon not running", "exit_code", hostexec.ExitCode(err))
	}

	return status
}

// parseDockerVersion extracts "27.1.1" from
// "Docker version 27.1.1, build 6312585".
func parseDockerVersion(out string) string {
	fields := strings.Fields(strings.TrimSpace(out))
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			return strings.TrimSuffix(fields[i+1], ",")
		}
	}
	return ""
}
