package fxapp

import (
	"log"

	"github.com/birdnet-go/birdnet-mcp/internal/health"
	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/logs"
	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	"github.com/birdnet-go/birdnet-mcp/internal/server"
	"github.com/birdnet-go/birdnet-mcp/internal/server-plugins/container"
	logsPlugin "github.com/birdnet-go/birdnet-mcp/internal/server-plugins/logs"
	"github.com/birdnet-go/birdnet-mcp/internal/server-plugins/service"
	"github.com/birdnet-go/birdnet-mcp/internal/server-plugins/status"
	"github.com/birdnet-go/birdnet-mcp/internal/server-plugins/update"
	"github.com/birdnet-go/birdnet-mcp/internal/snapshot"
	"github.com/birdnet-go/birdnet-mcp/internal/upgrade"
	"github.com/birdnet-go/birdnet-mcp/internal/version"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"github.com/birdnet-go/birdnet-mcp/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// New assembles the full application from the already loaded
// configuration.
func New(cfg *config.ServerConfig) *fx.App {
	// Default to a verbose logger for debug level
	var fxLogger fx.Option = fx.WithLogger(
		func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		},
	)

	if cfg.LogLevel != "debug" {
		fxLogger = fx.NopLogger
	}

	return fx.New(
		fxLogger,
		fx.Supply(cfg),
		config.Module,
		logger.Module,
		hostexec.Module,
		probe.Module,
		health.Module,
		version.Module,
		upgrade.Module,
		logs.Module,
		snapshot.Module,
		server.Module,
		status.Module,
		service.Module,
		container.Module,
		update.Module,
		logsPlugin.Module,
	)
}
