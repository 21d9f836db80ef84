package api

import (
	"fmt"
	"os"

	"github.com/tmarstad/confknob/pkg/varstore"
)

// OpenStore opens the variable store backend named by the
// configuration and, when a seed list is configured, imports it before
// returning. The closer releases backend resources and is never nil.
func OpenStore(config ServerConfig) (varstore.Store, func() error, error) {
	var (
		s      varstore.Store
		closer = func() error { return nil }
	)

	switch config.Backend {
	case "", "memory":
		s = varstore.NewMemStore()
	case "pebble":
		if config.PebbleDir == "" {
			return nil, nil, fmt.Errorf("pebble backend needs a data directory")
		}
		ps, err := varstore.NewPebbleStore(config.PebbleDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open pebble store: %w", err)
		}
		s, closer = ps, ps.Close
	case "efivarfs":
		s = varstore.NewEfiVarFS(config.EfiVarDir)
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", config.Backend)
	}

	if config.SeedList != "" {
		blob, err := os.ReadFile(config.SeedList)
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("failed to read seed list: %w", err)
		}
		n, err := varstore.ImportList(s, blob)
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("failed to seed store: %w", err)
		}
		fmt.Printf("Seeded %d variables from %s\n", n, config.SeedList)
	}

	return s, closer, nil
}
