package logs

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/internal/shared"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

// AppLogLines is the fixed tail window read from the application's
// structured log file.
const AppLogLines = 500

// AppLogFetcher tails the application's JSON log file and parses each
// line independently. Unparseable lines are dropped; the result is
// ordered newest first.
type AppLogFetcher struct {
	runner  hostexec.Runner
	logFile string
	logger  *slog.Logger
}

func NewAppLogFetcher(runner hostexec.Runner, instance config.InstanceConfig, logger *slog.Logger) *AppLogFetcher {
	return &AppLogFetcher{runner: runner, logFile: instance.LogFile, logger: logger}
}

func (f *AppLogFetcher) Fetch(ctx context.Context) []shared.LogEntry {
	out, err := f.runner.Run(ctx, hostexec.Command{
		Name: "tail",
		Args: []string{"-n", strconv.Itoa(AppLogLines), f.logFile},
	})
	if err != nil {
		f.logger.Debug("Application log fetch failed", "file", f.logFile, "error", err)
		return []shared.LogEntry{}
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	entries := make([]shared.LogEntry, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry shared.LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	// Newest first for display.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// Filter applies level and free-text filters after a fetch. The
// underlying buffer is untouched; a fresh slice comes back.
func Filter(entries []shared.LogEntry, level, search string) []shared.LogEntry {
	filtered := make([]shared.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.MatchesLevel(level) {
			continue
		}
		if !entry.MatchesSearch(search) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
