package logs

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

// ContainerLogLines is the fixed tail window fetched from the engine.
const ContainerLogLines = 200

// ErrorPlaceholder is shown instead of silently rendering nothing when
// the engine refuses the log request.
const ErrorPlaceholder = "error fetching logs"

// ContainerLogFetcher tails the managed container's engine logs. Each
// fetch replaces the previous buffer entirely.
type ContainerLogFetcher struct {
	runner        hostexec.Runner
	containerName string
	logger        *slog.Logger
}

func NewContainerLogFetcher(runner hostexec.Runner, instance config.InstanceConfig, logger *slog.Logger) *ContainerLogFetcher {
	return &ContainerLogFetcher{runner: runner, containerName: instance.ContainerName, logger: logger}
}

func (f *ContainerLogFetcher) Fetch(ctx context.Context) []string {
	out, err := f.runner.Run(ctx, hostexec.Command{
		Name: "docker",
		Args: []string{"logs", "--tail", strconv.Itoa(ContainerLogLines), f.containerName},
	})
	if err != nil {
		f.logger.Debug("Container log fetch failed", "error", err)
		return []string{ErrorPlaceholder}
	}

	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
