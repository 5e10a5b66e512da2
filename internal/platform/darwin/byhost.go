//go:build darwin

package darwin

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ByHostLocator resolves the per-host windowserver plist, which is keyed by
// the machine's IOPlatformUUID.
type ByHostLocator struct{}

// NewByHostLocator returns a new ByHostLocator instance.
func NewByHostLocator() *ByHostLocator {
	return &ByHostLocator{}
}

// ByHostPath returns the per-host preference file path, or "" when the host
// UUID cannot be determined.
func (l *ByHostLocator) ByHostPath() (string, error) {
	hostUUID, err := hostUUID()
	if err != nil {
		return "", err
	}
	if hostUUID == "" {
		return "", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	name := fmt.Sprintf("com.apple.windowserver.displays.%s.plist", hostUUID)
	return filepath.Join(home, "Library", "Preferences", "ByHost", name), nil
}

// hostUUID extracts IOPlatformUUID from the I/O registry. Returns "" when
// the registry has no UUID entry.
func hostUUID() (string, error) {
	out, err := exec.Command("ioreg", "-d2", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return "", fmt.Errorf("ioreg: %w", err)
	}
	return parseHostUUID(string(out)), nil
}

// parseHostUUID finds the IOPlatformUUID line in ioreg output. The value is
// validated so a mangled registry entry never produces a bogus file name.
func parseHostUUID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		candidate := strings.Trim(fields[len(fields)-1], `"`)
		if _, err := uuid.Parse(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
