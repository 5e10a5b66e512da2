//go:build darwin

package darwin

import "github.com/sudowork/rgbfix/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Files:  NewStore(),
			ByHost: NewByHostLocator(),
			Gate:   NewGate(),
		}, nil
	}
}
