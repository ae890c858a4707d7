package physics

import (
	"errors"
	"fmt"

	"github.com/georgpou/particlebox/internal/sim"
)

// ErrUnknownEngine indicates a backend name the registry does not know.
var ErrUnknownEngine = errors.New("physics: unknown engine")

// Engines lists the available backend names.
func Engines() []string { return []string{"box", "gravity"} }

// New builds the named engine seeded for reproducible runs.
func New(name string, seed int64) (sim.Engine, error) {
	switch name {
	case "box":
		return NewBox(seed), nil
	case "gravity":
		return NewGravity(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
