package hostexectesting

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
)

// FakeRunner implements hostexec.Runner for tests without touching the host.
// Responses are scripted per command line; unscripted commands fail loudly
// so a test never silently exercises the wrong path.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []hostexec.Command
}

type fakeResponse struct {
	output []byte
	err    error
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]fakeResponse),
	}
}

func commandKey(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// Stub registers the output for an exact command line.
func (f *FakeRunner) Stub(name string, args []string, output string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[commandKey(name, args)] = fakeResponse{output: []byte(output), err: err}
}

// StubFailure registers a generic non-zero-exit style failure.
func (f *FakeRunner) StubFailure(name string, args []string, output string) {
	f.Stub(name, args, output, fmt.Errorf("failed to execute command %s: exit status 1", name))
}

func (f *FakeRunner) Run(ctx context.Context, cmd hostexec.Command) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)

	resp, ok := f.responses[commandKey(cmd.Name, cmd.Args)]
	if !ok {
		return nil, fmt.Errorf("no stub for command: %s", commandKey(cmd.Name, cmd.Args))
	}
	return resp.output, resp.err
}

// Calls returns a copy of every command the fake has seen, in order.
func (f *FakeRunner) Calls() []hostexec.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]hostexec.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLines returns the executed command lines as strings, for
// order-of-operations assertions.
func (f *FakeRunner) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		lines = append(lines, commandKey(c.Name, c.Args))
	}
	return lines
}
