package view

import (
	"fmt"

	"github.com/georgpou/particlebox/internal/scene"
)

// Collection owns the particles synchronized from the simulation
// buffers. Index i of the render buffer, the size buffer and the
// particle sequence all describe the same body for the collection's
// whole lifetime. The buffers are borrowed, never owned: the
// orchestration layer refreshes them, the collection only observes.
type Collection struct {
	sc     scene.Scene
	render []float64 // three coordinates per body
	sizes  []float64 // one radius per body
	parts  []*Particle
}

// NewCollection builds one particle per index of the backing buffers.
// render carries three coordinates per body and must agree with sizes
// on the body count; on mismatch nothing is registered with the scene.
func NewCollection(sc scene.Scene, render, sizes []float64, cfg Config) (*Collection, error) {
	if len(render) != 3*len(sizes) {
		return nil, fmt.Errorf("%w: %d coordinates for %d sizes",
			ErrLengthMismatch, len(render), len(sizes))
	}
	c := &Collection{
		sc:     sc,
		render: render,
		sizes:  sizes,
		parts:  make([]*Particle, 0, len(sizes)),
	}
	for i := range sizes {
		p, err := NewParticle(sc, vecAt(render, i), sizes[i], cfg)
		if err != nil {
			return nil, err
		}
		c.parts = append(c.parts, p)
	}
	return c, nil
}

func vecAt(buf []float64, i int) scene.Vec3 {
	return scene.Vec3{X: buf[3*i], Y: buf[3*i+1], Z: buf[3*i+2]}
}

// Len reports the body count.
func (c *Collection) Len() int { return len(c.parts) }

// Particle returns body i.
func (c *Collection) Particle(i int) *Particle { return c.parts[i] }

// Update pushes the current buffer values into every particle. This is
// the single per-frame synchronization point between simulation state
// and visual state; it allocates nothing and must run only after the
// backing buffer has been refreshed.
func (c *Collection) Update() {
	for i, p := range c.parts {
		p.SetPosition(vecAt(c.render, i))
	}
}

// Close removes every particle from the scene. A second call is a
// no-op.
func (c *Collection) Close() {
	for _, p := range c.parts {
		c.sc.Remove(p)
	}
	c.parts = c.parts[:0]
}
