// Package platform abstracts access to the OS display-preference storage so
// the patch engine can run against an in-memory fixture in tests.
package platform

// FileSource provides discovery and file access for display-preference plists.
type FileSource interface {
	// Discover returns the candidate preference files that exist on disk,
	// in a fixed order. An empty result means there is nothing to patch.
	Discover() ([]string, error)

	ReadFile(path string) ([]byte, error)

	// WriteFile replaces path with data. Implementations must write to a
	// temporary file and rename into place so an interrupted run never
	// leaves a half-written preference file.
	WriteFile(path string, data []byte) error

	Remove(path string) error

	Exists(path string) (bool, error)
}

// ByHostLocator resolves the per-host preference file, on platforms that
// keep one keyed by the machine UUID.
type ByHostLocator interface {
	// ByHostPath returns the path of the ByHost preference file, or "" when
	// the host UUID cannot be determined.
	ByHostPath() (string, error)
}

// Gate verifies the running OS is one this tool is known to work on.
type Gate interface {
	// CheckOS returns nil, ErrUntestedOS, or ErrUnsupportedOS.
	CheckOS() error
}
