package shared

// DockerStatus reports the state of the container engine on this host.
// Rebuilt from scratch on every poll, never merged.
type DockerStatus struct {
	Available bool   `json:"available"`
	Running   bool   `json:"running"`
	Version   string `json:"version,omitempty"`
}

// ServiceStatus reports the state of the managing systemd unit.
type ServiceStatus struct {
	Exists  bool   `json:"exists"`
	Running bool   `json:"running"`
	Enabled bool   `json:"enabled"`
	Status  string `json:"status,omitempty"`
}

// ContainerStatus reports the state of the managed container. Running
// reflects the health endpoint when it answers; the engine's view is
// the fallback, not the authority.
type ContainerStatus struct {
	Exists       bool   `json:"exists"`
	Running      bool   `json:"running"`
	ImagePresent bool   `json:"imagePresent"`
	ContainerID  string `json:"containerId,omitempty"`
	Status       string `json:"status,omitempty"`
}

// HealthStatus is the payload of the application's /api/v2/health
// endpoint, passed through verbatim.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	BuildDate      string  `json:"build_date"`
	Environment    string  `json:"environment"`
	DatabaseStatus string  `json:"database_status"`
	DatabaseError  string  `json:"database_error,omitempty"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Timestamp      string  `json:"timestamp"`
}

// Healthy reports whether the application considers itself usable.
// Degraded still counts: the process is up and answering.
func (h *HealthStatus) Healthy() bool {
	return h != nil && (h.Status == "healthy" || h.Status == "degraded")
}

// VersionInfo accumulates the result of an update check. Fields are
// merged, not replaced: a failed registry query must not erase what is
// already known about the running build.
type VersionInfo struct {
	Current         string   `json:"current"`
	BuildDate       string   `json:"buildDate,omitempty"`
	Latest          string   `json:"latest,omitempty"`
	LatestNightly   string   `json:"latestNightly,omitempty"`
	NightlyTags     []string `json:"nightlyTags,omitempty"`
	UpdateAvailable *bool    `json:"updateAvailable,omitempty"`
	Checking        bool     `json:"checkingUpdate"`
	UpdateError     string   `json:"updateError,omitempty"`
	ReleaseNotes    string   `json:"releaseNotes,omitempty"`
	ReleaseURL      string   `json:"releaseUrl,omitempty"`
}
