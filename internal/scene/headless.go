package scene

// Headless is a surface that draws nothing. It serves batch runs and
// tests: it counts presented frames and, when built with a positive
// frame limit, requests an exit once the limit is reached.
type Headless struct {
	limit       int
	renderables []Renderable
	frames      int
}

// NewHeadless returns a headless surface that requests an exit after
// maxFrames presentations. A maxFrames of zero means never.
func NewHeadless(maxFrames int) *Headless {
	return &Headless{limit: maxFrames}
}

func (h *Headless) Add(r Renderable) error {
	h.renderables = append(h.renderables, r)
	return nil
}

func (h *Headless) Remove(r Renderable) {
	for i, reg := range h.renderables {
		if reg == r {
			h.renderables = append(h.renderables[:i], h.renderables[i+1:]...)
			return
		}
	}
}

func (h *Headless) Present(resetCamera, showAxes bool) error {
	h.frames++
	return nil
}

// ShouldClose reports whether the frame limit has been reached.
func (h *Headless) ShouldClose() bool {
	return h.limit > 0 && h.frames >= h.limit
}

// Frames reports how many presentations have happened.
func (h *Headless) Frames() int { return h.frames }

// Registered reports how many renderables the surface currently holds.
func (h *Headless) Registered() int { return len(h.renderables) }
