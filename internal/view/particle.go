package view

import (
	"errors"
	"fmt"

	"github.com/georgpou/particlebox/internal/scene"
)

// MinResolution is the smallest tessellation a sphere can be built
// with.
const MinResolution = 3

// DefaultResolution is the stock sphere detail.
const DefaultResolution = 8

var (
	// ErrBadRadius indicates a non-positive radius.
	ErrBadRadius = errors.New("view: radius must be positive")

	// ErrBadResolution indicates a tessellation below the renderable
	// minimum.
	ErrBadResolution = errors.New("view: resolution below renderable minimum")

	// ErrLengthMismatch indicates position and size buffers that
	// disagree on the particle count.
	ErrLengthMismatch = errors.New("view: buffer lengths mismatch")
)

// Config carries the optional visual attributes of a particle. The
// zero value means gray, stock resolution, no trail.
type Config struct {
	Color      scene.Color
	Resolution int
	Trail      bool
	TrailLen   int
}

// Particle is one renderable body registered with a scene. Whether it
// trails is fixed at construction; position, radius, color and
// resolution are mutable.
type Particle struct {
	sc     scene.Scene
	pos    scene.Vec3
	radius float64
	color  scene.Color
	res    int
	trail  *Trail
}

// NewParticle registers one body with sc at pos. A zero cfg yields the
// stock look. Registration failures from the scene propagate.
func NewParticle(sc scene.Scene, pos scene.Vec3, radius float64, cfg Config) (*Particle, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrBadRadius, radius)
	}
	res := cfg.Resolution
	if res == 0 {
		res = DefaultResolution
	}
	if res < MinResolution {
		return nil, fmt.Errorf("%w: %d", ErrBadResolution, res)
	}
	color := cfg.Color
	if color == (scene.Color{}) {
		color = scene.Gray
	}
	p := &Particle{sc: sc, pos: pos, radius: radius, color: color, res: res}
	if cfg.Trail {
		p.trail = NewTrail(cfg.TrailLen)
		p.trail.Push(pos)
	}
	if err := sc.Add(p); err != nil {
		return nil, fmt.Errorf("register particle: %w", err)
	}
	return p, nil
}

// Center reports the current position.
func (p *Particle) Center() scene.Vec3 { return p.pos }

// SetPosition moves the particle. The move is visible at the next
// presentation; an attached trail records the new position.
func (p *Particle) SetPosition(pos scene.Vec3) {
	p.pos = pos
	if p.trail != nil {
		p.trail.Push(pos)
	}
}

// Radius reports the current radius.
func (p *Particle) Radius() float64 { return p.radius }

// SetRadius updates the radius. Frames already presented are not
// re-tessellated; the value applies from the next presentation.
func (p *Particle) SetRadius(r float64) error {
	if r <= 0 {
		return fmt.Errorf("%w: %g", ErrBadRadius, r)
	}
	p.radius = r
	return nil
}

// Color reports the display color.
func (p *Particle) Color() scene.Color { return p.color }

// SetColor updates the display color.
func (p *Particle) SetColor(c scene.Color) { p.color = c }

// Resolution reports the tessellation detail.
func (p *Particle) Resolution() int { return p.res }

// SetResolution updates the tessellation detail for future frames.
func (p *Particle) SetResolution(n int) error {
	if n < MinResolution {
		return fmt.Errorf("%w: %d", ErrBadResolution, n)
	}
	p.res = n
	return nil
}

// Trailing reports whether the particle records a path history.
func (p *Particle) Trailing() bool { return p.trail != nil }

// TrailPoints appends the recorded path to dst, oldest first. Particles
// without a trail leave dst unchanged.
func (p *Particle) TrailPoints(dst []scene.Vec3) []scene.Vec3 {
	if p.trail == nil {
		return dst
	}
	return p.trail.Points(dst)
}
