package version

import (
	"context"
	"log/slog"
	"sync"

	"github.com/birdnet-go/birdnet-mcp/internal/shared"
)

// CheckState tracks the lifecycle of an update check.
type CheckState string

const (
	StateIdle     CheckState = "idle"
	StateChecking CheckState = "checking"
	StateResolved CheckState = "resolved"
	StateErrored  CheckState = "errored"
)

// VersionSource lets tests script the upstream answers.
type VersionSource interface {
	ListNightlyTags(ctx context.Context) ([]string, error)
	LatestRelease(ctx context.Context) (*Release, error)
}

// Reconciler decides whether a newer build exists for the currently
// reported version. VersionInfo fields are merged, never cleared: a
// failed upstream query leaves everything already known intact.
// Concurrent checks are not coalesced; the last one to finish wins.
type Reconciler struct {
	source VersionSource
	logger *slog.Logger

	mu    sync.Mutex
	state CheckState
	info  shared.VersionInfo
}

func NewReconciler(source VersionSource, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		source: source,
		logger: logger,
		state:  StateIdle,
	}
}

func (r *Reconciler) State() CheckState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Info returns a copy of the accumulated version information.
func (r *Reconciler) Info() shared.VersionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Reconciler) snapshotLocked() shared.VersionInfo {
	info := r.info
	if r.info.NightlyTags != nil {
		info.NightlyTags = append([]string(nil), r.info.NightlyTags...)
	}
	if r.info.UpdateAvailable != nil {
		v := *r.info.UpdateAvailable
		info.UpdateAvailable = &v
	}
	return info
}

// Check runs one reconciliation cycle for the given running version and
// returns the resulting snapshot.
func (r *Reconciler) Check(ctx context.Context, current, buildDate string) shared.VersionInfo {
	r.mu.Lock()
	if current != "" {
		r.info.Current = current
	}
	if buildDate != "" {
		r.info.BuildDate = buildDate
	}
	r.info.Checking = true
	r.info.UpdateError = ""
	r.state = StateChecking
	currentVersion := r.info.Current
	r.mu.Unlock()

	if IsNightly(currentVersion) {
		r.checkNightly(ctx, currentVersion)
	} else {
		r.checkStable(ctx, currentVersion)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.info.Checking = false
	return r.snapshotLocked()
}

func (r *Reconciler) checkNightly(ctx context.Context, current string) {
	tags, err := r.source.ListNightlyTags(ctx)
	if err != nil || len(tags) == 0 {
		// Registry trouble on the nightly path is not worth alarming the
		// operator over: stay a neutral development build.
		r.logger.Debug("Nightly tag listing unavailable", "error", err)
		r.mu.Lock()
		r.state = StateResolved
		r.mu.Unlock()
		return
	}

	latestTag := ""
	latestDate := 0
	for _, tag := range tags {
		date, ok := NightlyDate(tag)
		if !ok {
			continue
		}
		// Strictly greater keeps the first-seen tag on date ties.
		if date > latestDate {
			latestDate = date
			latestTag = tag
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.info.NightlyTags = tags
	r.info.LatestNightly = latestTag

	if currentDate, ok := NightlyDate(current); ok && latestDate > 0 {
		available := latestDate > currentDate
		r.info.UpdateAvailable = &available
	}
	r.state = StateResolved
}

func (r *Reconciler) checkStable(ctx context.Context, current string) {
	release, err := r.source.LatestRelease(ctx)
	if err != nil {
		r.logger.Warn("Release lookup failed", "error", err)
		r.mu.Lock()
		r.info.UpdateError = err.Error()
		r.state = StateErrored
		r.mu.Unlock()
		return
	}

	latest := Normalize(release.TagName)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.info.Latest = latest
	r.info.ReleaseNotes = release.Body
	r.info.ReleaseURL = release.HTMLURL

	if current != "" {
		cmp, err := Compare(latest, current)
		if err != nil {
			r.info.UpdateError = err.Error()
			r.state = StateErrored
			return
		}
		available := cmp > 0
		r.info.UpdateAvailable = &available
	}
	r.state = StateResolved
}
