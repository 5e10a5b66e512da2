//go:build !darwin

// On other platforms the package compiles as a no-op stub; NewProviderFunc
// stays nil and platform.NewProvider reports ErrUnsupported.
package darwin
