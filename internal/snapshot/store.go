package snapshot

import (
	"sync"
	"time"

	"github.com/birdnet-go/birdnet-mcp/internal/shared"
)

// InstanceStatus is the combined status snapshot of one poll tick.
type InstanceStatus struct {
	Docker    shared.DockerStatus    `json:"docker"`
	Service   shared.ServiceStatus   `json:"service"`
	Container shared.ContainerStatus `json:"container"`
	Health    *shared.HealthStatus   `json:"health,omitempty"`
	CheckedAt time.Time              `json:"checkedAt"`
}

// Store holds the latest snapshot per kind. Every write is a full
// replacement of that kind; overlapping ticks race last-write-wins,
// which is accepted.
type Store struct {
	mu            sync.RWMutex
	status        InstanceStatus
	containerLogs []string
	appLogs       []shared.LogEntry
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetStatus(status InstanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *Store) Status() InstanceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) SetContainerLogs(lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containerLogs = lines
}

func (s *Store) ContainerLogs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.containerLogs))
	copy(out, s.containerLogs)
	return out
}

func (s *Store) SetAppLogs(entries []shared.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appLogs = entries
}

func (s *Store) AppLogs() []shared.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shared.LogEntry, len(s.appLogs))
	copy(out, s.appLogs)
	return out
}
