package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgpou/particlebox/internal/scene"
	"github.com/georgpou/particlebox/internal/view"
)

// Errors reported by the simulation lifecycle.
var (
	// ErrClosed indicates use of a simulation after teardown.
	ErrClosed = errors.New("sim: simulation closed")

	// ErrBadParams indicates a rejected parameter set.
	ErrBadParams = errors.New("sim: invalid parameters")
)

// Engine is the physics backend contract. The backend owns collision
// handling, boundary constraints and integration; this layer only moves
// state across the boundary. Every call can fail and callers must treat
// each one as fallible, in-process backends included.
type Engine interface {
	// Init allocates internal state for count particles with radii in
	// [rMin, rMax] and per-axis speeds bounded by vMax.
	Init(count int, rMin, rMax, vMax float64) error

	// Sizes writes the per-particle radii into dst (length count).
	// Radii are fixed for the lifetime of the allocated state.
	Sizes(dst []float64) error

	// Positions writes the current planar positions into dst, packed
	// x then y per particle (length 2*count).
	Positions(dst []float64) error

	// CollisionCheck resolves pairwise overlaps in place.
	CollisionCheck() error

	// BoundaryCheck enforces the domain bounds in place.
	BoundaryCheck() error

	// Step integrates the state forward by one fixed internal step.
	Step() error

	// Close releases the allocated state. It is only valid while state
	// is allocated; lifecycle guards belong to the caller.
	Close() error
}

// Params defines one simulation population.
type Params struct {
	Count       int
	RadiusMin   float64
	RadiusMax   float64
	VelocityMax float64
}

// DefaultParams is the stock population.
func DefaultParams() Params {
	return Params{
		Count:       50,
		RadiusMin:   0.035,
		RadiusMax:   0.085,
		VelocityMax: 0.009,
	}
}

// Validate rejects parameter sets the engine contract does not admit.
func (p Params) Validate() error {
	switch {
	case p.Count <= 0:
		return fmt.Errorf("%w: count %d", ErrBadParams, p.Count)
	case p.RadiusMin <= 0 || p.RadiusMax < p.RadiusMin:
		return fmt.Errorf("%w: radius bounds [%g, %g]", ErrBadParams, p.RadiusMin, p.RadiusMax)
	case p.VelocityMax <= 0:
		return fmt.Errorf("%w: velocity bound %g", ErrBadParams, p.VelocityMax)
	}
	return nil
}

// Observer receives every synchronized frame: the 1-based frame index
// and the planar positions packed x then y per particle. The slice is
// the simulation's working buffer; observers must copy what they keep.
type Observer interface {
	Frame(frame int, positions []float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(frame int, positions []float64)

func (f ObserverFunc) Frame(frame int, positions []float64) { f(frame, positions) }

// Simulation owns one live engine state and the buffers mirroring it
// into a scene. Exactly one goroutine may drive a Simulation; for
// parallel batches see [Ensemble].
type Simulation struct {
	// ShowAxes is forwarded to every presentation. On by default.
	ShowAxes bool

	sc     scene.Scene
	engine Engine
	params Params
	visual view.Config

	positions []float64 // engine side, x and y per particle
	render    []float64 // scene side, x, y and z per particle, z pinned to 0
	sizes     []float64

	coll        *view.Collection
	observers   []Observer
	frames      int
	initialized bool
}

// New validates p, allocates the working buffers, brings the engine up
// and registers the initial population with sc. The returned simulation
// is fully initialized. A failed engine or scene call aborts
// construction and propagates; there is no retry and no partial-state
// recovery.
func New(sc scene.Scene, engine Engine, p Params, visual view.Config) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		ShowAxes:  true,
		sc:        sc,
		engine:    engine,
		params:    p,
		visual:    visual,
		positions: make([]float64, 2*p.Count),
		render:    make([]float64, 3*p.Count),
		sizes:     make([]float64, p.Count),
	}
	if err := engine.Init(p.Count, p.RadiusMin, p.RadiusMax, p.VelocityMax); err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}
	if err := engine.Sizes(s.sizes); err != nil {
		return nil, fmt.Errorf("engine sizes: %w", err)
	}
	if err := engine.Positions(s.positions); err != nil {
		return nil, fmt.Errorf("engine positions: %w", err)
	}
	s.syncRender()
	coll, err := view.NewCollection(sc, s.render, s.sizes, visual)
	if err != nil {
		return nil, err
	}
	s.coll = coll
	s.initialized = true
	return s, nil
}

// syncRender mirrors the planar positions into the scene-side buffer,
// pinning the third coordinate to zero. Runs once per frame, not just
// at initialization.
func (s *Simulation) syncRender() {
	for i := 0; i < s.params.Count; i++ {
		s.render[3*i] = s.positions[2*i]
		s.render[3*i+1] = s.positions[2*i+1]
		s.render[3*i+2] = 0
	}
}

// AddObserver registers o for per-frame callbacks, fired after each
// synchronization.
func (s *Simulation) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Step advances the engine one tick and synchronizes the visual state:
// collisions, bounds, integration, position pull, render-buffer sync,
// collection update. Any engine failure is fatal to the run and
// propagates wrapped.
func (s *Simulation) Step() error {
	if !s.initialized {
		return ErrClosed
	}
	if err := s.engine.CollisionCheck(); err != nil {
		return fmt.Errorf("engine collision check: %w", err)
	}
	if err := s.engine.BoundaryCheck(); err != nil {
		return fmt.Errorf("engine boundary check: %w", err)
	}
	if err := s.engine.Step(); err != nil {
		return fmt.Errorf("engine step: %w", err)
	}
	if err := s.engine.Positions(s.positions); err != nil {
		return fmt.Errorf("engine positions: %w", err)
	}
	s.syncRender()
	s.coll.Update()
	s.frames++
	for _, o := range s.observers {
		o.Frame(s.frames, s.positions)
	}
	return nil
}

// Run drives the step-and-present loop until the scene requests an
// exit or ctx is canceled. The camera reset is requested exactly once,
// on the first presented frame. The exit signal is polled once per
// iteration, after presentation.
func (s *Simulation) Run(ctx context.Context) error {
	if !s.initialized {
		return ErrClosed
	}
	for first := true; ; first = false {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
		if err := s.sc.Present(first, s.ShowAxes); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		if scene.ShouldClose(s.sc) {
			return nil
		}
	}
}

// Reconfigure tears the receiver down and brings up a fresh simulation
// for p on the same scene and engine. The old engine state is released
// before the new one is allocated, so at most one population is ever
// live. The receiver is unusable afterwards whether or not the rebuild
// succeeds.
func (s *Simulation) Reconfigure(p Params) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.Close(); err != nil {
		return nil, err
	}
	next, err := New(s.sc, s.engine, p, s.visual)
	if err != nil {
		return nil, err
	}
	next.ShowAxes = s.ShowAxes
	return next, nil
}

// Close tears the simulation down: scene registrations first, then
// exactly one engine deallocation, guarded so repeated calls are
// no-ops.
func (s *Simulation) Close() error {
	if !s.initialized {
		return nil
	}
	s.initialized = false
	s.coll.Close()
	if err := s.engine.Close(); err != nil {
		return fmt.Errorf("engine close: %w", err)
	}
	return nil
}

// Collection exposes the synchronized particles, for render backends
// that draw outside the Run loop.
func (s *Simulation) Collection() *view.Collection { return s.coll }

// Params reports the population parameters.
func (s *Simulation) Params() Params { return s.params }

// Frames reports how many steps have completed.
func (s *Simulation) Frames() int { return s.frames }
