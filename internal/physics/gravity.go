package physics

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

const (
	// gravityG scales the pairwise attraction so default populations
	// drift visibly at per-frame speeds.
	gravityG = 3e-5

	// gravitySoftening keeps close encounters finite.
	gravitySoftening = 0.02

	// parallelThreshold is the population size above which the force
	// sweep is split across workers.
	parallelThreshold = 256
)

// Gravity simulates softly attracting disks in the same unit square.
// Pairwise forces use Plummer softening with mass proportional to disk
// area; speeds stay clamped to the configured bound so the population
// keeps to the per-frame displacement regime the walls expect.
type Gravity struct {
	rng     *rand.Rand
	workers int

	count int
	vmax  float64
	pos   []float64
	vel   []float64
	radii []float64
	ax    []float64
	ay    []float64
}

// NewGravity returns an unallocated engine seeded for reproducible
// runs.
func NewGravity(seed int64) *Gravity {
	return &Gravity{
		rng:     rand.New(rand.NewSource(seed)),
		workers: runtime.NumCPU(),
	}
}

func (g *Gravity) allocated() bool { return g.pos != nil }

// Init places count disks exactly like Box, starting them at rest so
// the attraction shapes the motion.
func (g *Gravity) Init(count int, rMin, rMax, vMax float64) error {
	if g.allocated() {
		return ErrAllocated
	}
	if err := checkParams(count, rMin, rMax, vMax); err != nil {
		return err
	}

	pos := make([]float64, 2*count)
	radii := make([]float64, count)
	for i := 0; i < count; i++ {
		radii[i] = rMin + g.rng.Float64()*(rMax-rMin)
		if !place(g.rng, pos, radii, i) {
			return fmt.Errorf("%w: disk %d of %d", ErrPlacement, i+1, count)
		}
	}

	g.count = count
	g.vmax = vMax
	g.pos, g.radii = pos, radii
	g.vel = make([]float64, 2*count)
	g.ax = make([]float64, count)
	g.ay = make([]float64, count)
	return nil
}

// Sizes writes the per-disk radii into dst.
func (g *Gravity) Sizes(dst []float64) error {
	if !g.allocated() {
		return ErrNotAllocated
	}
	if len(dst) != g.count {
		return fmt.Errorf("%w: want %d, got %d", ErrBadBuffer, g.count, len(dst))
	}
	copy(dst, g.radii)
	return nil
}

// Positions writes the current positions into dst, x then y per disk.
func (g *Gravity) Positions(dst []float64) error {
	if !g.allocated() {
		return ErrNotAllocated
	}
	if len(dst) != 2*g.count {
		return fmt.Errorf("%w: want %d, got %d", ErrBadBuffer, 2*g.count, len(dst))
	}
	copy(dst, g.pos)
	return nil
}

// CollisionCheck separates overlapping pairs elastically, same as Box.
func (g *Gravity) CollisionCheck() error {
	if !g.allocated() {
		return ErrNotAllocated
	}
	collideAll(g.pos, g.vel, g.radii, g.count)
	return nil
}

// BoundaryCheck reflects disks off the walls.
func (g *Gravity) BoundaryCheck() error {
	if !g.allocated() {
		return ErrNotAllocated
	}
	reflectWalls(g.pos, g.vel, g.radii, g.count)
	return nil
}

// Step accumulates the pairwise attraction, folds it into the
// velocities under the speed clamp, and advances one fixed step.
func (g *Gravity) Step() error {
	if !g.allocated() {
		return ErrNotAllocated
	}
	g.forces()
	for i := 0; i < g.count; i++ {
		g.vel[2*i] = clamp(g.vel[2*i]+g.ax[i], g.vmax)
		g.vel[2*i+1] = clamp(g.vel[2*i+1]+g.ay[i], g.vmax)
		g.pos[2*i] += g.vel[2*i]
		g.pos[2*i+1] += g.vel[2*i+1]
	}
	return nil
}

func (g *Gravity) forces() {
	for i := range g.ax {
		g.ax[i], g.ay[i] = 0, 0
	}
	if g.count < parallelThreshold {
		g.forcesSerial()
		return
	}
	g.forcesParallel()
}

// forcesSerial exploits symmetry, updating both disks per pair.
func (g *Gravity) forcesSerial() {
	eps2 := gravitySoftening * gravitySoftening
	for i := 0; i < g.count; i++ {
		xi, yi := g.pos[2*i], g.pos[2*i+1]
		for j := i + 1; j < g.count; j++ {
			rx := g.pos[2*j] - xi
			ry := g.pos[2*j+1] - yi
			r2 := rx*rx + ry*ry + eps2

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := gravityG * g.radii[j] * g.radii[j] * r3Inv
			g.ax[i] += fij * rx
			g.ay[i] += fij * ry

			fji := gravityG * g.radii[i] * g.radii[i] * r3Inv
			g.ax[j] -= fji * rx
			g.ay[j] -= fji * ry
		}
	}
}

// forcesParallel splits rows across workers. Each row sums over every
// other disk, so workers never write the same index.
func (g *Gravity) forcesParallel() {
	eps2 := gravitySoftening * gravitySoftening
	chunk := (g.count + g.workers - 1) / g.workers

	var wg sync.WaitGroup
	for w := 0; w < g.workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > g.count {
			hi = g.count
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				xi, yi := g.pos[2*i], g.pos[2*i+1]
				for j := 0; j < g.count; j++ {
					if j == i {
						continue
					}
					rx := g.pos[2*j] - xi
					ry := g.pos[2*j+1] - yi
					r2 := rx*rx + ry*ry + eps2

					rInv := 1.0 / math.Sqrt(r2)
					r3Inv := rInv * rInv * rInv

					fij := gravityG * g.radii[j] * g.radii[j] * r3Inv
					g.ax[i] += fij * rx
					g.ay[i] += fij * ry
				}
			}
		}(lo, hi)
	}
	wg.Wait()
}

// Close releases the allocated state.
func (g *Gravity) Close() error {
	if !g.allocated() {
		return ErrNotAllocated
	}
	g.count = 0
	g.pos, g.vel, g.radii = nil, nil, nil
	g.ax, g.ay = nil, nil
	return nil
}
