//go:build darwin

// Package darwin provides macOS platform support: it knows where the
// windowserver display plists live, resolves the per-host file from the
// IOPlatformExpertDevice UUID, and writes preference files atomically.
package darwin
