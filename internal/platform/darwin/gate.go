//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sudowork/rgbfix/internal/platform"
)

// Gate checks the macOS release. The LinkDescription field only appears in
// the windowserver plist on 11.4 and later, and releases past Big Sur have
// not been fully verified.
type Gate struct{}

// NewGate returns a new Gate instance.
func NewGate() *Gate {
	return &Gate{}
}

// CheckOS reads the product version via sw_vers and classifies it.
func (g *Gate) CheckOS() error {
	out, err := exec.Command("sw_vers", "-productVersion").Output()
	if err != nil {
		return fmt.Errorf("sw_vers: %w", err)
	}
	return classifyVersion(strings.TrimSpace(string(out)))
}

func classifyVersion(ver string) error {
	major, minor, err := parseVersion(ver)
	if err != nil {
		return fmt.Errorf("unrecognized macOS version %q: %w", ver, err)
	}
	switch {
	case major < 11:
		return fmt.Errorf("%w (found %s)", platform.ErrUnsupportedOS, ver)
	case major == 11 && minor < 4:
		return fmt.Errorf("%w (found %s)", platform.ErrUnsupportedOS, ver)
	case major >= 12:
		return fmt.Errorf("%w (found %s)", platform.ErrUntestedOS, ver)
	}
	return nil
}

func parseVersion(ver string) (major, minor int, err error) {
	parts := strings.Split(ver, ".")
	if len(parts) == 0 || parts[0] == "" {
		return 0, 0, fmt.Errorf("empty version")
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, err
		}
	}
	return major, minor, nil
}
