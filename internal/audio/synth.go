// Package audio sonifies a running simulation as an ambient pad.
// The synth is output only: triangle oscillators over a G minor
// voicing, a one-pole low-pass and a stereo ping-pong delay. Mean
// particle speed opens the filter, so a busy box sounds brighter.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 44100
	bufferSize = 1024

	baseCutoff = 280.0 // Hz, filter floor when the box is still
	cutoffSpan = 950.0 // Hz, added on top at full activity
	// mean step speeds live around 1e-3, this maps them onto the span
	activityGain = 120000.0

	delayTime = 0.6 // seconds
	feedback  = 0.7
	volume    = 0.25
)

// padChord is G2 Bb2 D3 F3 A3, a Gm7 voicing with the ninth on top.
var padChord = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth drives the default output device. SetActivity may be called
// from any goroutine; the render callback picks the value up under the
// lock and smooths it so the filter never jumps.
type Synth struct {
	stream *portaudio.Stream

	time   float64
	filter [2]float64
	delay  [2][]float64
	head   int

	mu       sync.Mutex
	activity float64

	level float64 // smoothed activity, render callback only
}

// NewSynth builds an idle synth. Start opens the stream.
func NewSynth() *Synth {
	n := int(sampleRate * delayTime)
	return &Synth{delay: [2][]float64{make([]float64, n), make([]float64, n)}}
}

// Start initializes portaudio and begins rendering to the default
// stereo output.
func (s *Synth) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, s.render)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}
	s.stream = stream
	return nil
}

// Stop closes the stream and tears portaudio down. Safe to call more
// than once.
func (s *Synth) Stop() {
	if s.stream == nil {
		return
	}
	s.stream.Stop()
	s.stream.Close()
	s.stream = nil
	portaudio.Terminate()
}

// SetActivity feeds the current mean particle speed to the synth.
func (s *Synth) SetActivity(meanSpeed float64) {
	s.mu.Lock()
	s.activity = meanSpeed
	s.mu.Unlock()
}

func (s *Synth) render(out [][]float32) {
	s.mu.Lock()
	target := s.activity
	s.mu.Unlock()

	// slow morph keeps the cutoff change inaudible between buffers
	s.level += (target - s.level) * 0.02
	cutoff := baseCutoff + math.Min(s.level*activityGain, cutoffSpan)

	dt := 1.0 / sampleRate
	for i := range out[0] {
		var left, right float64
		for j, f := range padChord {
			breathe := 0.7 + 0.3*math.Sin(s.time*0.2+float64(j))
			g := breathe / float64(len(padChord))
			left += triangle(s.time*f*0.999) * g
			right += triangle(s.time*f*1.001) * g
		}

		left, s.filter[0] = lowpass(left, cutoff, dt, s.filter[0])
		right, s.filter[1] = lowpass(right, cutoff, dt, s.filter[1])

		// ping-pong delay, each side bleeding into the other
		dl, dr := s.delay[0][s.head], s.delay[1][s.head]
		left += dl*0.3 + dr*0.1
		right += dr*0.3 + dl*0.1
		s.delay[0][s.head] = left * feedback
		s.delay[1][s.head] = right * feedback
		s.head = (s.head + 1) % len(s.delay[0])

		out[0][i] = float32(left * volume)
		out[1][i] = float32(right * volume)
		s.time += dt
	}
}

// triangle is a naive wrapping oscillator, phase in cycles.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4*math.Abs(p-0.5) - 1
}

// lowpass is a one-pole filter returning the sample and the new state.
func lowpass(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1 / (2 * math.Pi * cutoff)
	a := dt / (rc + dt)
	state += a * (sample - state)
	return state, state
}
