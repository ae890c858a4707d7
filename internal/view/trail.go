package view

import "github.com/georgpou/particlebox/internal/scene"

// DefaultTrailLen is the number of past positions a trail keeps.
const DefaultTrailLen = 50

// Trail is a fixed-size ring buffer of past positions. Pushing beyond
// capacity overwrites the oldest sample, so the history never grows.
type Trail struct {
	buf  []scene.Vec3
	head int
	n    int
}

// NewTrail returns a trail holding up to capacity samples. A capacity
// below one falls back to DefaultTrailLen.
func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = DefaultTrailLen
	}
	return &Trail{buf: make([]scene.Vec3, capacity)}
}

// Push records p, evicting the oldest sample when full.
func (t *Trail) Push(p scene.Vec3) {
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

// Len reports the number of recorded samples.
func (t *Trail) Len() int { return t.n }

// Cap reports the sample capacity.
func (t *Trail) Cap() int { return len(t.buf) }

// Points appends the recorded positions to dst, oldest first, and
// returns the extended slice.
func (t *Trail) Points(dst []scene.Vec3) []scene.Vec3 {
	start := t.head - t.n
	if start < 0 {
		start += len(t.buf)
	}
	for i := 0; i < t.n; i++ {
		dst = append(dst, t.buf[(start+i)%len(t.buf)])
	}
	return dst
}
