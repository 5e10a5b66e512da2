package main

import (
	"github.com/sudowork/rgbfix/cmd"

	// Register the macOS platform backend.
	_ "github.com/sudowork/rgbfix/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
