// Package patcher drives the per-file patch flow: discover the preference
// files, decode each one, force matched display entries to RGB, back up the
// original and write the result atomically. Files are processed
// independently; one bad file never aborts the run.
package patcher

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sudowork/rgbfix/internal/log"
	"github.com/sudowork/rgbfix/internal/platform"
	"github.com/sudowork/rgbfix/internal/prefs"
)

// BackupSuffix is appended to a preference file's path to form its backup
// path. The suffix is deterministic so repeated runs find the same backup.
const BackupSuffix = ".bak"

// ErrBackupConflict means the backup path is occupied by a file whose
// content differs from the current original. Overwriting it would destroy
// the only recoverable pre-patch state, so the file is skipped instead.
var ErrBackupConflict = errors.New("backup exists with different content")

// Options configures a run.
type Options struct {
	// DryRun reports what would change without touching disk.
	DryRun bool
}

// Patcher applies the RGB fix across all discovered preference files.
type Patcher struct {
	files  platform.FileSource
	byhost platform.ByHostLocator
	opts   Options
	log    zerolog.Logger
}

// New returns a Patcher over the given file source. locator may be nil on
// platforms without per-host preference files.
func New(files platform.FileSource, locator platform.ByHostLocator, opts Options) *Patcher {
	return &Patcher{
		files:  files,
		byhost: locator,
		opts:   opts,
		log:    log.WithComponent("patcher"),
	}
}

// Run processes every discovered file in order, then the per-host file.
// It returns an error only when discovery itself fails; per-file failures
// are recorded in the report.
func (p *Patcher) Run() (*Report, error) {
	paths, err := p.files.Discover()
	if err != nil {
		return nil, fmt.Errorf("enumerate display preferences: %w", err)
	}
	if len(paths) == 0 {
		p.log.Warn().Msg("no display preference files found; try rotating the display in System Preferences to create one")
	}

	report := &Report{DryRun: p.opts.DryRun}
	for _, path := range paths {
		p.log.Info().Str("path", path).Msg("processing")
		result := p.processFile(path)
		report.add(result)
	}
	p.cleanByHost(report)
	report.Summary.Discovered = len(paths)
	return report, nil
}

// processFile walks one file through the state machine:
// decoded, then no-match / up-to-date / would-fix / fixed, or skipped /
// failed on a backup conflict or I/O error.
func (p *Patcher) processFile(path string) FileResult {
	result := FileResult{Path: path}

	original, err := p.files.ReadFile(path)
	if err != nil {
		return result.fail(fmt.Errorf("read: %w", err))
	}

	root, format, err := prefs.Decode(original)
	if err != nil {
		return result.fail(err)
	}

	result.Entries = prefs.Patch(root)
	if len(result.Entries) == 0 {
		p.log.Info().Str("path", path).Msg("no LinkDescription entries; nothing to fix")
		result.Outcome = OutcomeNoMatch
		return result
	}

	changed := false
	for _, e := range result.Entries {
		if e.Changed {
			changed = true
		}
	}
	if !changed {
		p.log.Info().Str("path", path).Msg("already set to RGB")
		result.Outcome = OutcomeUpToDate
		return result
	}

	for _, e := range result.Entries {
		p.logEntry(path, e)
	}

	if p.opts.DryRun {
		result.Outcome = OutcomeWouldFix
		return result
	}

	patched, err := prefs.Encode(root, format)
	if err != nil {
		return result.fail(err)
	}

	backupPath, err := p.ensureBackup(path, original)
	if err != nil {
		if errors.Is(err, ErrBackupConflict) {
			p.log.Warn().Str("path", path).Str("backup", backupPath).
				Msg("backup holds a different original; skipping to preserve it")
			return result.skip(err)
		}
		return result.fail(err)
	}
	result.Backup = backupPath

	if err := p.files.WriteFile(path, patched); err != nil {
		return result.fail(fmt.Errorf("write: %w", err))
	}
	p.log.Info().Str("path", path).Msg("fixed")
	result.Outcome = OutcomeFixed
	return result
}

// cleanByHost backs up and removes the per-host preference file so the OS
// regenerates it without the stale YPbPr link settings.
func (p *Patcher) cleanByHost(report *Report) {
	if p.byhost == nil {
		return
	}
	path, err := p.byhost.ByHostPath()
	if err != nil {
		p.log.Warn().Err(err).Msg("could not resolve ByHost preferences; leaving them alone")
		return
	}
	if path == "" {
		p.log.Warn().Msg("could not identify the host UUID; leaving ByHost preferences alone")
		return
	}
	exists, err := p.files.Exists(path)
	if err != nil {
		report.add(FileResult{Path: path}.fail(fmt.Errorf("stat: %w", err)))
		return
	}
	if !exists {
		p.log.Info().Str("path", path).Msg("no ByHost preferences found")
		return
	}

	result := FileResult{Path: path}
	if p.opts.DryRun {
		p.log.Info().Str("path", path).Msg("would remove ByHost preferences")
		result.Outcome = OutcomeWouldRemove
		report.add(result)
		return
	}
	p.log.Info().Str("path", path).Msg("removing ByHost preferences")

	original, err := p.files.ReadFile(path)
	if err != nil {
		report.add(result.fail(fmt.Errorf("read: %w", err)))
		return
	}
	backupPath, err := p.ensureBackup(path, original)
	if err != nil {
		if errors.Is(err, ErrBackupConflict) {
			report.add(result.skip(err))
			return
		}
		report.add(result.fail(err))
		return
	}
	result.Backup = backupPath
	if err := p.files.Remove(path); err != nil {
		report.add(result.fail(fmt.Errorf("remove: %w", err)))
		return
	}
	result.Outcome = OutcomeRemoved
	report.add(result)
}

// ensureBackup guarantees a byte-identical copy of original exists at the
// backup path before the original is overwritten. An existing backup with
// matching content is reused; one with different content is a conflict.
func (p *Patcher) ensureBackup(path string, original []byte) (string, error) {
	backupPath := path + BackupSuffix
	exists, err := p.files.Exists(backupPath)
	if err != nil {
		return backupPath, fmt.Errorf("stat backup: %w", err)
	}
	if exists {
		prev, err := p.files.ReadFile(backupPath)
		if err != nil {
			return backupPath, fmt.Errorf("read backup: %w", err)
		}
		if !bytes.Equal(prev, original) {
			return backupPath, fmt.Errorf("%w: %s", ErrBackupConflict, backupPath)
		}
		return backupPath, nil
	}
	p.log.Info().Str("path", path).Str("backup", backupPath).Msg("backing up")
	if err := p.files.WriteFile(backupPath, original); err != nil {
		return backupPath, fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}

func (p *Patcher) logEntry(path string, e prefs.EntryPatch) {
	ev := p.log.Info().Str("path", path)
	if e.DisplayUUID != "" {
		ev = ev.Str("display", e.DisplayUUID)
	}
	for _, c := range e.Changes {
		ev = ev.Str(c.Field, fmt.Sprintf("%s -> %s", c.Before, c.After))
	}
	if p.opts.DryRun {
		ev.Msg("would fix")
	} else {
		ev.Msg("fixing")
	}
}
