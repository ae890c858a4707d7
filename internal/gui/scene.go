// Package gui renders scenes in a raylib window. The window is the
// only surface that can observe a user exit request, so this backend
// implements scene.ExitPoller on top of scene.Scene.
package gui

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/georgpou/particlebox/internal/scene"
)

const (
	winWidth   = 1280
	winHeight  = 720
	defaultFPS = 60
)

// ErrWindow indicates the window could not be opened or was lost.
var ErrWindow = errors.New("gui: window unavailable")

var (
	colBg   = rl.NewColor(10, 10, 10, 255)
	colText = rl.NewColor(140, 140, 140, 255)
	colDim  = rl.NewColor(60, 60, 60, 255)
)

// Scene draws registered primitives as spheres on the unit box plane.
type Scene struct {
	items    []scene.Renderable
	camera   rl.Camera3D
	frames   int
	quit     bool
	closed   bool
	trailBuf []scene.Vec3
}

// New opens the window and fixes the frame pacing. A non-positive fps
// falls back to 60.
func New(title string, fps int) (*Scene, error) {
	if title == "" {
		title = "particlebox"
	}
	if fps <= 0 {
		fps = defaultFPS
	}
	rl.InitWindow(winWidth, winHeight, title)
	if !rl.IsWindowReady() {
		return nil, ErrWindow
	}
	rl.SetTargetFPS(int32(fps))
	return &Scene{camera: defaultCamera()}, nil
}

func defaultCamera() rl.Camera3D {
	return rl.NewCamera3D(
		rl.NewVector3(0.5, 0.5, 1.6),
		rl.NewVector3(0.5, 0.5, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)
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

// Present draws one frame. resetCamera recenters the view on the unit
// box; showAxes outlines the domain bounds.
func (s *Scene) Present(resetCamera, showAxes bool) error {
	if s.closed {
		return scene.ErrClosed
	}
	if !rl.IsWindowReady() {
		return ErrWindow
	}
	if resetCamera {
		s.camera = defaultCamera()
	}
	s.handleInput()

	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode3D(s.camera)
	if showAxes {
		rl.DrawCubeWires(rl.NewVector3(0.5, 0.5, 0), 1, 1, 0, rl.ColorAlpha(rl.Gray, 0.5))
	}
	for _, it := range s.items {
		s.drawItem(it)
	}
	rl.EndMode3D()

	s.drawHUD()
	rl.EndDrawing()
	s.frames++
	return nil
}

// ShouldClose reports a pending user exit, through either the window
// close button or the quit key.
func (s *Scene) ShouldClose() bool {
	if s.closed {
		return true
	}
	return s.quit || rl.WindowShouldClose()
}

// Hold keeps the final frame interactive until the user closes the
// window.
func (s *Scene) Hold(showAxes bool) error {
	for !s.ShouldClose() {
		if err := s.Present(false, showAxes); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the window. Further Add and Present calls fail with
// scene.ErrClosed.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.items = nil
	rl.CloseWindow()
}

func (s *Scene) handleInput() {
	if rl.IsKeyPressed(rl.KeyQ) {
		s.quit = true
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		s.camera = defaultCamera()
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		s.camera.Position.Z -= wheel * 0.1
		if s.camera.Position.Z < 0.2 {
			s.camera.Position.Z = 0.2
		}
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		s.camera.Position.X -= delta.X * 0.002
		s.camera.Position.Y += delta.Y * 0.002
		s.camera.Target.X = s.camera.Position.X
		s.camera.Target.Y = s.camera.Position.Y
	}
}

func (s *Scene) drawItem(r scene.Renderable) {
	if t, ok := r.(scene.Trailer); ok {
		s.trailBuf = t.TrailPoints(s.trailBuf[:0])
		n := len(s.trailBuf)
		for i := 1; i < n; i++ {
			age := float32(i) / float32(n)
			col := rl.ColorAlpha(toColor(scene.Green), age)
			rl.DrawLine3D(toVector3(s.trailBuf[i-1]), toVector3(s.trailBuf[i]), col)
		}
	}
	res := int32(r.Resolution())
	rl.DrawSphereEx(toVector3(r.Center()), float32(r.Radius()), res, res, toColor(r.Color()))
}

func (s *Scene) drawHUD() {
	rl.DrawText("particlebox", 30, 30, 24, colText)
	rl.DrawText(fmt.Sprintf("%d particles", len(s.items)), 30, 60, 16, colDim)
	rl.DrawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, winHeight-40, 14, colDim)
	rl.DrawText("[Q] QUIT  [HOME] RECENTER  [WHEEL] ZOOM  [RMB] PAN", winWidth-500, winHeight-40, 14, colDim)
}

func toVector3(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func toColor(c scene.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
