package hostexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

// Command describes a single host process invocation.
type Command struct {
	Name    string
	Args    []string
	Elevate bool          // run through sudo -n when not already root
	Timeout time.Duration // zero means the runner default
}

// Runner executes local commands and returns their combined output.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

type execRunner struct {
	logger         *slog.Logger
	sudoPath       string
	defaultTimeout time.Duration
}

func NewRunner(cfg *config.ServerConfig, logger *slog.Logger) Runner {
	return &execRunner{
		logger:         logger,
		sudoPath:       cfg.SudoPath,
		defaultTimeout: cfg.CommandTimeout,
	}
}

// validateCommand performs basic validation before anything reaches a shell-adjacent surface.
func validateCommand(cmd Command) error {
	if cmd.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if strings.ContainsAny(cmd.Name, ";&|`$<>\n\r") {
		return fmt.Errorf("command name contains dangerous characters: %s", cmd.Name)
	}

	for i, arg := range cmd.Args {
		if strings.ContainsAny(arg, ";&|`\n\r") {
			return fmt.Errorf("argument %d contains dangerous characters: %s", i, arg)
		}
		if len(arg) > 1024 {
			return fmt.Errorf("argument %d too long (max 1024 characters)", i)
		}
	}

	return nil
}

func (r *execRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := cmd.Name
	args := cmd.Args
	if cmd.Elevate && os.Geteuid() != 0 {
		// -n keeps a missing sudoers entry from hanging on a password prompt.
		args = append([]string{"-n", name}, args...)
		name = r.sudoPath
	}

	execCmd := exec.CommandContext(cmdCtx, name, args...)
	execCmd.Stdin = nil
	// Set process group to avoid signal propagation issues
	execCmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}

	r.logger.Debug("Executing host command",
		"command", cmd.Name,
		"args", cmd.Args,
		"elevated", cmd.Elevate,
		"timeout", timeout)

	output, err := execCmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit is an expected negative signal for most state
			// queries, so it stays at debug level.
			r.logger.Debug("Host command exited non-zero",
				"command", cmd.Name,
				"args", cmd.Args,
				"exit_code", exitErr.ExitCode(),
				"output", string(output))
		} else {
			r.logger.Error("Failed to execute host command",
				"error", err,
				"command", cmd.Name,
				"args", cmd.Args,
				"context_error", cmdCtx.Err())
		}
		return output, fmt.Errorf("failed to execute command %s: %w", cmd.Name, err)
	}

	r.logger.Debug("Host command executed successfully",
		"command", cmd.Name,
		"output_length", len(output))

	return output, nil
}

// IsNonZeroExit reports whether err is a plain non-zero process exit,
// as opposed to a timeout or a failure to start at all.
func IsNonZeroExit(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// ExitCode returns the exit code of a failed command, or -1 when the
// process never ran or was killed.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
