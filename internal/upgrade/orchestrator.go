package upgrade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	"github.com/birdnet-go/birdnet-mcp/internal/shared"
	"github.com/birdnet-go/birdnet-mcp/internal/version"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

const pullTimeout = 10 * time.Minute

// Orchestrator upgrades the managed instance to a newer image. Steps
// run strictly in sequence; the first failure aborts the rest and
// whatever partial state resulted stays as-is (no rollback).
type Orchestrator struct {
	runner         hostexec.Runner
	dockerProbe    *probe.DockerProbe
	systemdProbe   *probe.SystemdProbe
	containerProbe *probe.ContainerProbe
	reconciler     *version.Reconciler
	instance       config.InstanceConfig
	logger         *slog.Logger
}

func NewOrchestrator(
	runner hostexec.Runner,
	dockerProbe *probe.DockerProbe,
	systemdProbe *probe.SystemdProbe,
	containerProbe *probe.ContainerProbe,
	reconciler *version.Reconciler,
	instance config.InstanceConfig,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		runner:         runner,
		dockerProbe:    dockerProbe,
		systemdProbe:   systemdProbe,
		containerProbe: containerProbe,
		reconciler:     reconciler,
		instance:       instance,
		logger:         logger,
	}
}

// ResolveTag picks the image tag to upgrade to, falling back to the
// generic channel tag when no concrete version is known yet.
func (o *Orchestrator) ResolveTag(nightly bool) string {
	info := o.reconciler.Info()
	if nightly {
		if info.LatestNightly != "" {
			return info.LatestNightly
		}
		return "nightly"
	}
	if info.Latest != "" {
		return "v" + info.Latest
	}
	return "latest"
}

// Upgrade pulls the target image and then either restarts the managing
// unit or recreates the standalone container on the new image.
func (o *Orchestrator) Upgrade(ctx context.Context, nightly bool) error {
	docker := o.dockerProbe.Probe(ctx)
	if !docker.Available || !docker.Running {
		return fmt.Errorf("container engine is not available or not running")
	}

	tag := o.ResolveTag(nightly)
	image := o.instance.ImagePrefix + ":" + tag

	o.logger.Info("Starting upgrade", "image", image, "nightly", nightly)

	if _, err := o.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"pull", image},
		Elevate: true,
		Timeout: pullTimeout,
	}); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}

	service := o.systemdProbe.Probe(ctx)
	if service.Exists {
		// The unit re-pulls and recreates on its own; restarting it is
		// the whole job.
		if _, err := o.runner.Run(ctx, hostexec.Command{
			Name:    "systemctl",
			Args:    []string{"restart", o.instance.UnitName},
			Elevate: true,
		}); err != nil {
			return fmt.Errorf("failed to restart service: %w", err)
		}
		o.logger.Info("Upgrade complete via service restart", "unit", o.instance.UnitName)
		return nil
	}

	return o.recreateContainer(ctx, docker, image)
}

func (o *Orchestrator) recreateContainer(ctx context.Context, docker shared.DockerStatus, image string) error {
	container := o.containerProbe.Probe(ctx, docker)
	if !container.Exists || container.ContainerID == "" {
		return fmt.Errorf("no managed container to recreate")
	}
	id := container.ContainerID

	if _, err := o.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"stop", id},
		Elevate: true,
	}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}

	inspectOut, err := o.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"inspect", id},
		Elevate: true,
	})
	if err != nil {
		return fmt.Errorf("failed to inspect container: %w", err)
	}

	captured, err := ParseInspect(inspectOut)
	if err != nil {
		return fmt.Errorf("failed to capture container configuration: %w", err)
	}

	if _, err := o.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    []string{"rm", id},
		Elevate: true,
	}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}

	// Point of no return is behind us: a failure here leaves no running
	// instance, matching the documented no-rollback semantics.
	if _, err := o.runner.Run(ctx, hostexec.Command{
		Name:    "docker",
		Args:    captured.RunArgs(o.instance.ContainerName, image),
		Elevate: true,
	}); err != nil {
		return fmt.Errorf("failed to recreate container: %w", err)
	}

	o.logger.Info("Upgrade complete via container recreate", "image", image)
	return nil
}
