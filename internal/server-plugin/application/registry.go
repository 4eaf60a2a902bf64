package plugins

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/birdnet-go/birdnet-mcp/internal/server-plugin/domain"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"go.uber.org/fx"
)

// ServerPluginRegistry manages the basic registration of server plugins
type ServerPluginRegistry struct {
	plugins map[string]domain.ServerPlugin
	mu      sync.RWMutex
}

// NewServerPluginRegistry creates a new server plugin registry
func NewServerPluginRegistry() *ServerPluginRegistry {
	return &ServerPluginRegistry{
		plugins: make(map[string]domain.ServerPlugin),
	}
}

// Register registers a server plugin
func (r *ServerPluginRegistry) Register(plugin domain.ServerPlugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins[plugin.ID()] = plugin
	return nil
}

// DynamicServerPluginRegistry manages the lifecycle of server plugins
// based on which host backends are actually present.
type DynamicServerPluginRegistry struct {
	pluginRegistry   *ServerPluginRegistry
	backendDiscovery domain.BackendDiscoveryService
	logger           *slog.Logger
	srvConfig        *config.ServerConfig

	allServerPlugins []domain.ServerPlugin
	active           map[string]bool
	mu               sync.RWMutex
}

type DynamicServerPluginRegistryParams struct {
	fx.In
	PluginRegistry   *ServerPluginRegistry
	BackendDiscovery domain.BackendDiscoveryService
	Logger           *slog.Logger
	SrvConfig        *config.ServerConfig
	ServerPlugins    []domain.ServerPlugin `group:"server_plugins"`
}

// NewDynamicServerPluginRegistry creates a new dynamic server plugin registry
func NewDynamicServerPluginRegistry(params DynamicServerPluginRegistryParams) *DynamicServerPluginRegistry {
	return &DynamicServerPluginRegistry{
		pluginRegistry:   params.PluginRegistry,
		backendDiscovery: params.BackendDiscovery,
		logger:           params.Logger,
		srvConfig:        params.SrvConfig,
		allServerPlugins: params.ServerPlugins,
		active:           make(map[string]bool),
	}
}

// RegisterHooks connects the registry's lifecycle to the Fx application lifecycle.
//
// Tools and resources reach the MCP server once, at startup, from the
// plugins active at that moment. The sync loop only flips the active
// flags afterwards: a backend appearing later activates its plugins in
// the registry but does not add their tools to the wire surface until
// the server restarts.
func (r *DynamicServerPluginRegistry) RegisterHooks(lc fx.Lifecycle) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			r.logger.Info("DynamicServerPluginRegistry starting...")

			for _, srvPlugin := range r.allServerPlugins {
				if err := r.pluginRegistry.Register(srvPlugin); err != nil {
					r.logger.Error("Failed to register server plugin",
						"plugin", srvPlugin.ID(),
						"error", err)
					continue
				}
				r.logger.Debug("ServerPlugin registered with registry",
					"plugin", srvPlugin.ID(),
					"name", srvPlugin.Name(),
					"required_backend", srvPlugin.RequiredBackend())
			}

			if r.srvConfig.BackendDiscovery.Enabled && r.srvConfig.BackendDiscovery.SyncInterval > 0 {
				r.logger.Info("Starting backend discovery sync loop",
					"interval", r.srvConfig.BackendDiscovery.SyncInterval)
				go r.runSyncLoop(ctx, r.srvConfig.BackendDiscovery.SyncInterval)
			} else {
				r.logger.Info("Backend discovery sync loop disabled")
			}
			return nil
		},
		OnStop: func(context.Context) error {
			r.logger.Info("DynamicServerPluginRegistry stopping...")
			cancel()
			return nil
		},
	})
}

func (r *DynamicServerPluginRegistry) runSyncLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("ServerPlugin synchronization loop stopped")
			return
		case <-ticker.C:
			if err := r.syncServerPlugins(ctx); err != nil {
				r.logger.Error("ServerPlugin sync failed", "error", err)
			}
		}
	}
}

// syncServerPlugins activates or deactivates server plugins based on the
// backends currently present on the host.
func (r *DynamicServerPluginRegistry) syncServerPlugins(ctx context.Context) error {
	backends, err := r.backendDiscovery.AvailableBackends(ctx)
	if err != nil {
		r.logger.Error("Failed to discover host backends, proceeding with unconditional plugins only", "error", err)
		backends = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	activatedCount := 0
	deactivatedCount := 0

	for _, srvPlugin := range r.allServerPlugins {
		srvPluginID := srvPlugin.ID()
		required := srvPlugin.RequiredBackend()

		shouldBeActive := required == "" || backendPresent(required, backends)
		isCurrentlyActive := r.active[srvPluginID]

		if shouldBeActive && !isCurrentlyActive {
			r.active[srvPluginID] = true
			r.logger.Info("ServerPlugin activated",
				"plugin", srvPluginID,
				"required_backend", required)
			activatedCount++
		} else if !shouldBeActive && isCurrentlyActive {
			r.active[srvPluginID] = false
			r.logger.Info("ServerPlugin deactivated",
				"plugin", srvPluginID,
				"required_backend", required)
			deactivatedCount++
		}
	}

	r.logger.Debug("ServerPlugin synchronization completed",
		"activated", activatedCount,
		"deactivated", deactivatedCount)

	return nil
}

// GetActiveServerPlugins returns a list of currently active server plugins.
func (r *DynamicServerPluginRegistry) GetActiveServerPlugins() []domain.ServerPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activeServerPlugins []domain.ServerPlugin
	for _, srvPlugin := range r.allServerPlugins {
		if r.active[srvPlugin.ID()] {
			activeServerPlugins = append(activeServerPlugins, srvPlugin)
		}
	}

	return activeServerPlugins
}

// IsServerPluginActive checks if a specific plugin is currently active.
func (r *DynamicServerPluginRegistry) IsServerPluginActive(srvPluginID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active[srvPluginID]
}

// SyncServerPlugins performs a manual synchronization of server plugins.
func (r *DynamicServerPluginRegistry) SyncServerPlugins(ctx context.Context) error {
	return r.syncServerPlugins(ctx)
}

func backendPresent(required string, backends []string) bool {
	for _, b := range backends {
		if b == required {
			return true
		}
	}
	return false
}
