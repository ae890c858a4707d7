package physics

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrAllocated indicates Init on an engine already holding state.
	ErrAllocated = errors.New("physics: state already allocated")

	// ErrNotAllocated indicates an operation before Init or after Close.
	ErrNotAllocated = errors.New("physics: no allocated state")

	// ErrBadParams indicates parameters the engine cannot allocate.
	ErrBadParams = errors.New("physics: invalid parameters")

	// ErrBadBuffer indicates an output buffer of the wrong length.
	ErrBadBuffer = errors.New("physics: wrong buffer length")

	// ErrPlacement indicates the domain could not fit the population
	// without overlaps.
	ErrPlacement = errors.New("physics: could not place disks without overlap")
)

// Box simulates hard disks bouncing in the unit square: elastic
// pairwise collisions, reflecting walls, one fixed step per tick.
// Velocities are per-step displacements.
type Box struct {
	rng *rand.Rand

	count int
	pos   []float64 // x and y per disk
	vel   []float64
	radii []float64
}

// NewBox returns an unallocated engine seeded for reproducible runs.
func NewBox(seed int64) *Box {
	return &Box{rng: rand.New(rand.NewSource(seed))}
}

func (b *Box) allocated() bool { return b.pos != nil }

// Init places count disks with radii uniform in [rMin, rMax] and
// per-axis velocities uniform in [-vMax, vMax], rejecting overlapping
// placements.
func (b *Box) Init(count int, rMin, rMax, vMax float64) error {
	if b.allocated() {
		return ErrAllocated
	}
	if err := checkParams(count, rMin, rMax, vMax); err != nil {
		return err
	}

	pos := make([]float64, 2*count)
	vel := make([]float64, 2*count)
	radii := make([]float64, count)
	for i := 0; i < count; i++ {
		radii[i] = rMin + b.rng.Float64()*(rMax-rMin)
		vel[2*i] = (2*b.rng.Float64() - 1) * vMax
		vel[2*i+1] = (2*b.rng.Float64() - 1) * vMax
		if !place(b.rng, pos, radii, i) {
			return fmt.Errorf("%w: disk %d of %d", ErrPlacement, i+1, count)
		}
	}

	b.count = count
	b.pos, b.vel, b.radii = pos, vel, radii
	return nil
}

func checkParams(count int, rMin, rMax, vMax float64) error {
	switch {
	case count <= 0:
		return fmt.Errorf("%w: count %d", ErrBadParams, count)
	case rMin <= 0 || rMax < rMin:
		return fmt.Errorf("%w: radius bounds [%g, %g]", ErrBadParams, rMin, rMax)
	case rMax >= Domain/2:
		return fmt.Errorf("%w: radius %g does not fit the domain", ErrBadParams, rMax)
	case vMax <= 0:
		return fmt.Errorf("%w: velocity bound %g", ErrBadParams, vMax)
	}
	return nil
}

// Sizes writes the per-disk radii into dst.
func (b *Box) Sizes(dst []float64) error {
	if !b.allocated() {
		return ErrNotAllocated
	}
	if len(dst) != b.count {
		return fmt.Errorf("%w: want %d, got %d", ErrBadBuffer, b.count, len(dst))
	}
	copy(dst, b.radii)
	return nil
}

// Positions writes the current positions into dst, x then y per disk.
func (b *Box) Positions(dst []float64) error {
	if !b.allocated() {
		return ErrNotAllocated
	}
	if len(dst) != 2*b.count {
		return fmt.Errorf("%w: want %d, got %d", ErrBadBuffer, 2*b.count, len(dst))
	}
	copy(dst, b.pos)
	return nil
}

// CollisionCheck resolves every overlapping pair elastically.
func (b *Box) CollisionCheck() error {
	if !b.allocated() {
		return ErrNotAllocated
	}
	collideAll(b.pos, b.vel, b.radii, b.count)
	return nil
}

// BoundaryCheck reflects disks off the walls.
func (b *Box) BoundaryCheck() error {
	if !b.allocated() {
		return ErrNotAllocated
	}
	reflectWalls(b.pos, b.vel, b.radii, b.count)
	return nil
}

// Step advances every disk by its per-step displacement.
func (b *Box) Step() error {
	if !b.allocated() {
		return ErrNotAllocated
	}
	for i := range b.pos {
		b.pos[i] += b.vel[i]
	}
	return nil
}

// Close releases the allocated state. The engine may be initialized
// again afterwards.
func (b *Box) Close() error {
	if !b.allocated() {
		return ErrNotAllocated
	}
	b.count = 0
	b.pos, b.vel, b.radii = nil, nil, nil
	return nil
}
