package scene

import "errors"

// Errors reported by scene backends.
var (
	// ErrClosed indicates the scene surface is not open for registrations
	// or presentation.
	ErrClosed = errors.New("scene: surface closed")
)

// Vec3 is a point in scene space. Simulation state is planar, so the
// synchronized Z coordinate is always zero.
type Vec3 struct {
	X, Y, Z float64
}

// Color is an RGBA display attribute.
type Color struct {
	R, G, B, A uint8
}

// Stock palette shared by the backends.
var (
	Gray  = Color{130, 130, 130, 255}
	Green = Color{0, 228, 48, 255}
	White = Color{245, 245, 245, 255}
	Black = Color{0, 0, 0, 255}
)

// Renderable is the pull contract a backend draws from on every frame.
// Implementations report their current visual state; backends never
// cache it across frames.
type Renderable interface {
	Center() Vec3
	Radius() float64
	Color() Color
	Resolution() int
}

// Trailer is an optional Renderable capability exposing a bounded path
// history, oldest sample first.
type Trailer interface {
	TrailPoints(dst []Vec3) []Vec3
}

// Scene is a rendering surface. Registered renderables are drawn on
// each presentation in registration order.
type Scene interface {
	// Add registers a renderable for future presentations. It fails
	// with ErrClosed when the surface cannot accept primitives.
	Add(r Renderable) error

	// Remove drops a previously registered renderable. Unknown
	// renderables are ignored.
	Remove(r Renderable)

	// Present draws the current frame. resetCamera recenters the view
	// on the registered population; showAxes draws the domain bounds.
	Present(resetCamera, showAxes bool) error
}

// ExitPoller is an optional Scene capability reporting a user exit
// request, polled once per loop iteration. Backends without a way to
// observe one simply do not implement it.
type ExitPoller interface {
	ShouldClose() bool
}

// ShouldClose reports whether s requested an exit, defaulting to false
// for backends without the capability.
func ShouldClose(s Scene) bool {
	if p, ok := s.(ExitPoller); ok {
		return p.ShouldClose()
	}
	return false
}
