package report

import (
	"encoding/json" // For encoding and decoding the report file
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"

	"setup-cpp/internal/logger" // Custom logger package for debug output
	"setup-cpp/internal/pipeline"
)

// DefaultPath is where a run report is written unless --report says otherwise.
const DefaultPath = "setup-report.json"

// Step records how one pipeline step ended.
type Step struct {
	Name       string `json:"name" yaml:"name"`                       // State name, e.g. "DownloadToolchain"
	Status     string `json:"status" yaml:"status"`                   // "success", "failed" or "skipped"
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`   // Detail such as the skip reason
	Error      string `json:"error,omitempty" yaml:"error,omitempty"` // Failure message for a failed step
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`         // Wall time in milliseconds
}

// Report is the persisted summary of one provisioning run.
// A report is written after every run, whether it reached Done or Aborted.
type Report struct {
	State      string    `json:"state" yaml:"state"`                             // "Done" or "Aborted"
	FailedAt   string    `json:"failed_at,omitempty" yaml:"failed_at,omitempty"` // Step that aborted the run
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`       // Human-readable abort reason
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Steps      []Step    `json:"steps" yaml:"steps"`
}

// FromOutcome converts a pipeline outcome into a Report.
func FromOutcome(out pipeline.Outcome) *Report {
	r := &Report{
		State:      out.State.String(),
		Reason:     out.Reason,
		StartedAt:  out.StartedAt,
		FinishedAt: out.FinishedAt,
		Steps:      make([]Step, 0, len(out.Results)),
	}
	if out.Aborted() {
		r.FailedAt = out.FailedAt.String()
	}
	for _, res := range out.Results {
		st := Step{
			Name:       res.State().String(),
			Status:     res.Status().String(),
			Note:       res.Note(),
			DurationMS: res.Duration().Milliseconds(),
		}
		if err := res.Err(); err != nil {
			st.Error = err.Error()
		}
		r.Steps = append(r.Steps, st)
	}
	return r
}

// Save writes r to path as indented JSON.
func Save(fsys afero.Fs, path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	logger.Debug("[DEBUG] Writing report to %s:\n%s\n", path, string(data))

	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return nil
}

// ErrNoReport is returned by Load when no run has been recorded at path.
var ErrNoReport = errors.New("no run report found")

// Load reads a report written by Save.
func Load(fsys afero.Fs, path string) (*Report, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrNoReport, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report file %s: %w", path, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report file %s: %w", path, err)
	}
	if r.Steps == nil {
		r.Steps = []Step{}
	}
	return &r, nil
}
