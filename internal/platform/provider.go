package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Files  FileSource
	ByHost ByHostLocator
	Gate   Gate
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("rgbfix is not supported on %s/%s; supported: darwin/amd64, darwin/arm64", runtime.GOOS, runtime.GOARCH)

// ErrUnsupportedOS is returned by Gate.CheckOS when the macOS release is too
// old for the LinkDescription field to exist in the plist (pre-11.4).
var ErrUnsupportedOS = errors.New("requires macOS 11.4 or later")

// ErrUntestedOS is returned by Gate.CheckOS on macOS releases this tool has
// not been verified against (12 and later).
var ErrUntestedOS = errors.New("not fully tested on this macOS release")

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
