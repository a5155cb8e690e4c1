// Package report accumulates per-listing outcomes during a run and persists
// the final report artifact.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/easyapply-agent/internal/schemas"
	"github.com/jonathan/easyapply-agent/internal/types"
)

var (
	// ErrDuplicateListing is returned when a listing URL is recorded twice.
	ErrDuplicateListing = errors.New("listing already recorded")
	// ErrFinalized is returned when Record is called after Finalize.
	ErrFinalized = errors.New("report already finalized")
)

// AppliedEntry is one successful application in the persisted report.
type AppliedEntry struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// FailedEntry is one failed attempt in the persisted report.
type FailedEntry struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// RunReport is the persisted summary of a run. Skipped listings are counted
// in memory for the session summary but never written to the artifact.
type RunReport struct {
	TotalApplied int            `json:"total_applied"`
	TotalFailed  int            `json:"total_failed"`
	AppliedJobs  []AppliedEntry `json:"applied_jobs"`
	FailedJobs   []FailedEntry  `json:"failed_jobs"`

	TotalSkipped int `json:"-"`
}

// Aggregator collects outcomes exactly once per listing and writes the
// report when the run finishes. Not safe for concurrent use; the run loop is
// sequential by design.
type Aggregator struct {
	path      string
	rep       RunReport
	seen      map[string]struct{}
	finalized bool
}

// NewAggregator returns an empty aggregator that will persist to path on
// Finalize. An empty path disables persistence.
func NewAggregator(path string) *Aggregator {
	return &Aggregator{
		path: path,
		rep: RunReport{
			AppliedJobs: []AppliedEntry{},
			FailedJobs:  []FailedEntry{},
		},
		seen: map[string]struct{}{},
	}
}

// Record adds one outcome. Each listing URL may be recorded at most once.
func (a *Aggregator) Record(out types.Outcome) error {
	if a.finalized {
		return ErrFinalized
	}
	if _, dup := a.seen[out.Listing.URL]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateListing, out.Listing.URL)
	}
	a.seen[out.Listing.URL] = struct{}{}

	switch out.Status {
	case types.StatusApplied:
		a.rep.TotalApplied++
		a.rep.AppliedJobs = append(a.rep.AppliedJobs, AppliedEntry{
			URL:    out.Listing.URL,
			Title:  out.Listing.Title,
			Status: string(types.StatusApplied),
		})
	case types.StatusFailed:
		a.rep.TotalFailed++
		a.rep.FailedJobs = append(a.rep.FailedJobs, FailedEntry{
			URL:    out.Listing.URL,
			Title:  out.Listing.Title,
			Status: string(types.StatusFailed),
			Reason: string(out.Reason),
		})
	case types.StatusSkipped:
		a.rep.TotalSkipped++
	default:
		return fmt.Errorf("unknown outcome status %q", out.Status)
	}
	return nil
}

// Total returns the number of outcomes recorded so far, skips included.
// The session cap bounds this number.
func (a *Aggregator) Total() int {
	return a.rep.TotalApplied + a.rep.TotalFailed + a.rep.TotalSkipped
}

// Report returns a snapshot of the current report.
func (a *Aggregator) Report() RunReport {
	return a.rep
}

// Finalize seals the aggregator and writes the report artifact. Calling it
// again returns the same report without rewriting the file.
func (a *Aggregator) Finalize() (RunReport, error) {
	if a.finalized {
		return a.rep, nil
	}
	a.finalized = true

	if a.path == "" {
		return a.rep, nil
	}

	data, err := json.MarshalIndent(a.rep, "", "  ")
	if err != nil {
		return a.rep, fmt.Errorf("failed to encode report: %w", err)
	}

	if schemaPath := schemas.ResolveSchemaPath(schemas.ReportSchemaFile); schemaPath != "" {
		if err := schemas.ValidateJSONBytes(schemaPath, data); err != nil {
			return a.rep, fmt.Errorf("report failed schema validation: %w", err)
		}
	}

	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return a.rep, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(a.path, append(data, '\n'), 0o644); err != nil {
		return a.rep, fmt.Errorf("failed to write report: %w", err)
	}
	return a.rep, nil
}
