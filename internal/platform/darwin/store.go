//go:build darwin

package darwin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// prefsName is the windowserver display-preferences file name.
const prefsName = "com.apple.windowserver.displays.plist"

// Store implements platform.FileSource against the real filesystem.
type Store struct{}

// NewStore returns a new Store instance.
func NewStore() *Store {
	return &Store{}
}

// Discover returns the candidate preference files that exist, system-level
// first, then the user-level copy.
func (s *Store) Discover() ([]string, error) {
	var found []string
	for _, path := range candidatePaths() {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Mode().IsRegular() {
			found = append(found, path)
		}
	}
	return found, nil
}

func candidatePaths() []string {
	paths := []string{filepath.Join("/", "Library", "Preferences", prefsName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "Library", "Preferences", prefsName))
	}
	return paths
}

// ReadFile reads the current on-disk bytes of path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile replaces path atomically: renameio handles the temp file, fsync
// and rename, and cleans the temp file up on error.
func (s *Store) WriteFile(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file for %s: %w", path, err)
	}
	defer pending.Cleanup() //nolint:errcheck

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// Remove deletes path.
func (s *Store) Remove(path string) error {
	return os.Remove(path)
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
