package pipeline

import (
	"time"

	"github.com/google/uuid"

	"gallery-pipeline/internal/logging"
)

// Failure records one per-image problem for the build summary. Stage
// names the pipeline step that failed ("ingest", "master", "decode",
// "variant:thumbnail", "pyramid", "manifest").
type Failure struct {
	Path  string `json:"path"`
	Stage string `json:"stage"`
	Err   error  `json:"-"`
	Error string `json:"error"`
}

// Report summarizes one pipeline run. Every per-image failure is
// collected here; none are silently dropped.
type Report struct {
	RunID     string        `json:"runId"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"-"`
	Seconds   float64       `json:"durationSeconds"`
	DryRun    bool          `json:"dryRun,omitempty"`

	Scanned   int  `json:"scanned"`
	Skipped   int  `json:"skipped"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Aborted   bool `json:"aborted,omitempty"`

	ManifestRecords int    `json:"manifestRecords"`
	ExcludedRecords int    `json:"excludedRecords"`
	ManifestPath    string `json:"manifestPath,omitempty"`

	Failures []Failure `json:"failures,omitempty"`
}

func newReport(dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		DryRun:    dryRun,
	}
}

func (r *Report) finish() {
	r.Duration = time.Since(r.StartedAt)
	r.Seconds = r.Duration.Seconds()
}

// ExitCode maps the run outcome to the process exit code: 0 when every
// image published cleanly, 1 when the manifest was written but some
// images failed, were excluded, or never ran because of an abort.
func (r *Report) ExitCode() int {
	if r.Failed > 0 || r.ExcludedRecords > 0 || r.Aborted {
		return 1
	}
	return 0
}

// Log prints the build summary through the standard logger.
func (r *Report) Log() {
	logging.Info("------------------------------------")
	if r.DryRun {
		logging.Info("Dry run %s complete in %v", r.RunID, r.Duration.Round(time.Millisecond))
		logging.Info("Would process %d masters (%d skipped)", r.Scanned, r.Skipped)
		return
	}

	if r.Aborted {
		logging.Warn("Build %s aborted after %v", r.RunID, r.Duration.Round(time.Millisecond))
	} else {
		logging.Info("Build %s complete in %v", r.RunID, r.Duration.Round(time.Millisecond))
	}
	logging.Info("Images: %d succeeded, %d failed, %d skipped (of %d scanned)",
		r.Succeeded, r.Failed, r.Skipped, r.Scanned)
	logging.Info("Manifest: %d records (%d excluded) at %s", r.ManifestRecords, r.ExcludedRecords, r.ManifestPath)

	if len(r.Failures) > 0 {
		logging.Warn("%d failure(s):", len(r.Failures))
		for _, f := range r.Failures {
			logging.Warn("  %s [%s]: %s", f.Path, f.Stage, f.Error)
		}
	}
}

func newFailure(path, stage string, err error) Failure {
	return Failure{Path: path, Stage: stage, Err: err, Error: err.Error()}
}
