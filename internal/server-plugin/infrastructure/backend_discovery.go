package infrastructure

import (
	"context"
	"log/slog"

	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	"github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
)

// backendDiscoveryService derives backend availability from the status
// probes. Probes never fail, so neither does discovery.
//
// "docker" means the engine binary is installed. "systemd" means the
// managed unit exists, not that systemd itself does: without a unit
// the service plugin has nothing to control.
type backendDiscoveryService struct {
	dockerProbe  *probe.DockerProbe
	systemdProbe *probe.SystemdProbe
	logger       *slog.Logger
}

func NewBackendDiscoveryService(dockerProbe *probe.DockerProbe, systemdProbe *probe.SystemdProbe, logger *slog.Logger) domain.BackendDiscoveryService {
	return &backendDiscoveryService{
		dockerProbe:  dockerProbe,
		systemdProbe: systemdProbe,
		logger:       logger,
	}
}

func (s *backendDiscoveryService) AvailableBackends(ctx context.Context) ([]string, error) {
	var backends []string

	if s.dockerProbe.Probe(ctx).Available {
		backends = append(backends, domain.BackendDocker)
	}
	if s.systemdProbe.Probe(ctx).Exists {
		backends = append(backends, domain.BackendSystemd)
	}

	s.logger.Debug("Host backends detected", "backends", backends)
	return backends, nil
}
