package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/birdnet-go/birdnet-mcp/internal/health"
	"github.com/birdnet-go/birdnet-mcp/internal/logs"
	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

const (
	taskContainerLogs = "container-logs"
	taskAppLogs       = "app-logs"
)

// Poller drives the periodic refresh cycle. The status loop runs
// unconditionally; the two log loops are condition-scoped tasks that a
// reconciling pass starts and stops as their enabling condition (the
// instance being up) flips. Each task owns its cancellation handle.
type Poller struct {
	store          *Store
	dockerProbe    *probe.DockerProbe
	systemdProbe   *probe.SystemdProbe
	containerProbe *probe.ContainerProbe
	healthClient   *health.Client
	containerLogs  *logs.ContainerLogFetcher
	appLogs        *logs.AppLogFetcher
	poll           config.PollConfig
	logger         *slog.Logger

	mu          sync.Mutex
	activeTasks map[string]context.CancelFunc
	base        context.Context
	cancel      context.CancelFunc
}

func NewPoller(
	store *Store,
	dockerProbe *probe.DockerProbe,
	systemdProbe *probe.SystemdProbe,
	containerProbe *probe.ContainerProbe,
	healthClient *health.Client,
	containerLogs *logs.ContainerLogFetcher,
	appLogs *logs.AppLogFetcher,
	poll config.PollConfig,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		store:          store,
		dockerProbe:    dockerProbe,
		systemdProbe:   systemdProbe,
		containerProbe: containerProbe,
		healthClient:   healthClient,
		containerLogs:  containerLogs,
		appLogs:        appLogs,
		poll:           poll,
		logger:         logger,
		activeTasks:    make(map[string]context.CancelFunc),
	}
}

// Start begins the status loop. An immediate first refresh fills the
// store before the first interval elapses.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.base = ctx
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		p.refreshStatus(ctx)

		ticker := time.NewTicker(p.poll.HealthInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Status polling stopped")
				return
			case <-ticker.C:
				p.refreshStatus(ctx)
			}
		}
	}()
}

// Stop cancels the status loop and every active conditional task.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.base = nil
	}
	for name, cancel := range p.activeTasks {
		cancel()
		p.logger.Debug("Cancelled polling task during shutdown", "task", name)
	}
	p.activeTasks = make(map[string]context.CancelFunc)
}

// Refresh performs one on-demand probe cycle outside the schedule,
// e.g. right before answering a status tool call.
func (p *Poller) Refresh(ctx context.Context) InstanceStatus {
	p.refreshStatus(ctx)
	return p.store.Status()
}

// refreshStatus performs one full probe cycle and reconciles the
// conditional tasks against the fresh snapshot.
func (p *Poller) refreshStatus(ctx context.Context) {
	docker := p.dockerProbe.Probe(ctx)
	service := p.systemdProbe.Probe(ctx)
	container := p.containerProbe.Probe(ctx, docker)
	healthStatus := p.healthClient.Check(ctx)

	p.store.SetStatus(InstanceStatus{
		Docker:    docker,
		Service:   service,
		Container: container,
		Health:    healthStatus,
		CheckedAt: time.Now(),
	})

	p.reconcileTasks()
}

// reconcileTasks starts or stops the condition-scoped log loops. The
// decision uses only the latest snapshot, so a condition flipping false
// tears its timer down on the next status tick.
func (p *Poller) reconcileTasks() {
	status := p.store.Status()

	p.reconcileTask(taskContainerLogs,
		status.Docker.Running && status.Container.Exists,
		p.poll.ContainerLogInterval,
		func(taskCtx context.Context) {
			p.store.SetContainerLogs(p.containerLogs.Fetch(taskCtx))
		})

	p.reconcileTask(taskAppLogs,
		status.Container.Running || status.Service.Running,
		p.poll.AppLogInterval,
		func(taskCtx context.Context) {
			p.store.SetAppLogs(p.appLogs.Fetch(taskCtx))
		})
}

func (p *Poller) reconcileTask(name string, shouldRun bool, interval time.Duration, tick func(context.Context)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cancel, running := p.activeTasks[name]

	switch {
	case shouldRun && !running:
		// Tasks outlive the refresh cycle that started them, so their
		// context comes from the poller's lifetime, never from the
		// caller. A task tied to a tool-call request would die with the
		// request while still registered as active.
		parent := p.base
		if parent == nil {
			parent = context.Background()
		}
		taskCtx, taskCancel := context.WithCancel(parent)
		p.activeTasks[name] = taskCancel
		p.logger.Info("Starting polling task", "task", name, "interval", interval)
		go p.runTask(taskCtx, name, interval, tick)

	case !shouldRun && running:
		cancel()
		delete(p.activeTasks, name)
		p.logger.Info("Stopped polling task", "task", name)
	}
}

func (p *Poller) runTask(ctx context.Context, name string, interval time.Duration, tick func(context.Context)) {
	tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Polling task finished", "task", name)
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// ActiveTaskCount returns how many conditional tasks are running.
func (p *Poller) ActiveTaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.activeTasks)
}
