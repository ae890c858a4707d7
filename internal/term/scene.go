package term

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/georgpou/particlebox/internal/scene"
)

const (
	// DefaultWidth and DefaultHeight size the canvas in terminal cells.
	DefaultWidth  = 80
	DefaultHeight = 24

	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Scene renders registered primitives as braille art. The unit box maps
// onto a centered square region of the canvas with +Y up. It implements
// scene.Scene but not scene.ExitPoller: a terminal run stops through
// its frame budget or context, never through the surface itself.
type Scene struct {
	out    io.Writer
	canvas *Canvas
	items  []scene.Renderable
	frame  string
	frames int
	closed bool

	// square drawing region in subpixels
	side, ox, oy int

	trailBuf []scene.Vec3
}

// New builds a Scene repainting ANSI frames on out. A nil out skips the
// terminal entirely and leaves each frame retrievable through Frame,
// which is how the interactive UI embeds the canvas. Non-positive
// dimensions fall back to the defaults.
func New(out io.Writer, width, height int) *Scene {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	cw, ch := width*2, height*4
	side := cw
	if ch < side {
		side = ch
	}
	return &Scene{
		out:    out,
		canvas: NewCanvas(width, height),
		side:   side,
		ox:     (cw - side) / 2,
		oy:     (ch - side) / 2,
	}
}

func (s *Scene) Add(r scene.Renderable) error {
	if s.closed {
		return scene.ErrClosed
	}
	s.items = append(s.items, r)
	return nil
}

func (s *Scene) Remove(r scene.Renderable) {
	for i, it := range s.items {
		if it == r {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Present composes the next frame and repaints the terminal. The view
// has a fixed camera, so resetCamera changes nothing here.
func (s *Scene) Present(resetCamera, showAxes bool) error {
	if s.closed {
		return scene.ErrClosed
	}
	_ = resetCamera
	s.canvas.Clear()
	if showAxes {
		s.drawBounds()
	}
	for _, it := range s.items {
		s.drawItem(it)
	}
	s.frames++
	s.frame = s.compose()
	if s.out != nil {
		if _, err := io.WriteString(s.out, clearScreen+s.frame); err != nil {
			return fmt.Errorf("term: repaint: %w", err)
		}
	}
	return nil
}

// Frame returns the most recently composed frame without ANSI codes.
func (s *Scene) Frame() string { return s.frame }

// Frames returns the number of presentations so far.
func (s *Scene) Frames() int { return s.frames }

// Start hides the cursor ahead of the repaint loop.
func (s *Scene) Start() {
	if s.out != nil {
		io.WriteString(s.out, hideCursor)
	}
}

// Stop restores the cursor.
func (s *Scene) Stop() {
	if s.out != nil {
		io.WriteString(s.out, showCursor)
	}
}

// Close stops accepting primitives and restores the cursor. Presenting
// a closed Scene fails with scene.ErrClosed.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.items = nil
	s.Stop()
}

// project maps a domain coordinate pair to subpixel space, flipping Y
// so the box floor sits at the bottom of the canvas.
func (s *Scene) project(x, y float64) (int, int) {
	scale := float64(s.side - 1)
	return s.ox + int(math.Round(x*scale)), s.oy + int(math.Round((1-y)*scale))
}

func (s *Scene) drawBounds() {
	x0, y0 := s.ox, s.oy
	x1, y1 := s.ox+s.side-1, s.oy+s.side-1
	s.canvas.DrawLine(x0, y0, x1, y0)
	s.canvas.DrawLine(x1, y0, x1, y1)
	s.canvas.DrawLine(x1, y1, x0, y1)
	s.canvas.DrawLine(x0, y1, x0, y0)
}

func (s *Scene) drawItem(r scene.Renderable) {
	if t, ok := r.(scene.Trailer); ok {
		s.trailBuf = t.TrailPoints(s.trailBuf[:0])
		for _, p := range s.trailBuf {
			x, y := s.project(p.X, p.Y)
			s.canvas.Set(x, y)
		}
	}
	c := r.Center()
	x, y := s.project(c.X, c.Y)
	rad := int(math.Round(r.Radius() * float64(s.side-1)))
	s.canvas.FillCircle(x, y, rad)
}

func (s *Scene) compose() string {
	var b strings.Builder
	b.WriteString(s.canvas.String())
	fmt.Fprintf(&b, "  %d particles  frame %d\n", len(s.items), s.frames)
	return b.String()
}
