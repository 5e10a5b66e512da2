package patcher

import (
	"github.com/sudowork/rgbfix/internal/prefs"
)

// Outcome is the terminal state of one file's processing.
type Outcome string

const (
	// OutcomeNoMatch means the file held no LinkDescription entries.
	OutcomeNoMatch Outcome = "no-match"
	// OutcomeUpToDate means every matched entry already held the RGB values.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeWouldFix is the dry-run counterpart of OutcomeFixed.
	OutcomeWouldFix Outcome = "would-fix"
	// OutcomeFixed means the file was backed up and rewritten.
	OutcomeFixed Outcome = "fixed"
	// OutcomeWouldRemove is the dry-run counterpart of OutcomeRemoved.
	OutcomeWouldRemove Outcome = "would-remove"
	// OutcomeRemoved means the ByHost file was backed up and deleted.
	OutcomeRemoved Outcome = "removed"
	// OutcomeSkipped means the file was left alone to protect an existing
	// backup with different content.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means a decode or I/O error; the file is untouched.
	OutcomeFailed Outcome = "failed"
)

// FileResult is the per-file portion of the report.
type FileResult struct {
	Path    string             `yaml:"path"              json:"path"`
	Outcome Outcome            `yaml:"outcome"           json:"outcome"`
	Backup  string             `yaml:"backup,omitempty"  json:"backup,omitempty"`
	Entries []prefs.EntryPatch `yaml:"entries,omitempty" json:"entries,omitempty"`
	Error   string             `yaml:"error,omitempty"   json:"error,omitempty"`
}

func (r FileResult) fail(err error) FileResult {
	r.Outcome = OutcomeFailed
	r.Error = err.Error()
	return r
}

func (r FileResult) skip(err error) FileResult {
	r.Outcome = OutcomeSkipped
	r.Error = err.Error()
	return r
}

// Summary counts run outcomes across all files.
type Summary struct {
	Discovered int `yaml:"discovered" json:"discovered"`
	Matched    int `yaml:"matched"    json:"matched"`
	Modified   int `yaml:"modified"   json:"modified"`
	Skipped    int `yaml:"skipped"    json:"skipped"`
	Failed     int `yaml:"failed"     json:"failed"`
}

// Report is the structured output of a run.
type Report struct {
	DryRun  bool         `yaml:"dryRun"  json:"dryRun"`
	Files   []FileResult `yaml:"files"   json:"files"`
	Summary Summary      `yaml:"summary" json:"summary"`
}

func (r *Report) add(result FileResult) {
	r.Files = append(r.Files, result)
	if len(result.Entries) > 0 {
		r.Summary.Matched++
	}
	switch result.Outcome {
	case OutcomeFixed, OutcomeRemoved:
		r.Summary.Modified++
	case OutcomeSkipped:
		r.Summary.Skipped++
	case OutcomeFailed:
		r.Summary.Failed++
	}
}
