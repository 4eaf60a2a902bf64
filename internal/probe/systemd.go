package probe

import (
	"context"
	"log/slog"
	"strings"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/shared"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

// SystemdProbe checks whether the managing unit exists and in which
// state it sits. Non-zero exits from is-enabled / is-active are the
// normal "not in that state" answer, never an error.
type SystemdProbe struct {
	runner   hostexec.Runner
	unitName string
	logger   *slog.Logger
}

func NewSystemdProbe(runner hostexec.Runner, instance config.InstanceConfig, logger *slog.Logger) *SystemdProbe {
	return &SystemdProbe{runner: runner, unitName: instance.UnitName, logger: logger}
}

func (p *SystemdProbe) Probe(ctx context.Context) shared.ServiceStatus {
	// list-unit-files works without elevation and exits zero even when
	// nothing matches, so existence is decided from the output.
	out, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "systemctl",
		Args:    []string{"list-unit-files", p.unitName},
		Timeout: probeTimeout,
	})
	if err != nil || !strings.Contains(string(out), p.unitName) {
		return shared.ServiceStatus{Status: "not-found"}
	}

	status := shared.ServiceStatus{Exists: true, Status: "inactive"}

	enabled, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "systemctl",
		Args:    []string{"is-enabled", p.unitName},
		Timeout: probeTimeout,
	})
	if err == nil && strings.TrimSpace(string(enabled)) == "enabled" {
		status.Enabled = true
	}

	active, err := p.runner.Run(ctx, hostexec.Command{
		Name:    "systemctl",
		Args:    []string{"is-active", p.unitName},
		Timeout: probeTimeout,
	})
	if err == nil {
		state := strings.TrimSpace(string(active))
		status.Status = state
		status.Running = state == "active"
	} else if state := strings.TrimSpace(string(active)); state != "" {
		// is-active prints the state (failed, inactive, ...) even when
		// it exits non-zero.
		status.Status = state
	}

	return status
}
