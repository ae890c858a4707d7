package sim

import "math"

// SpeedMeter observes frames and tracks the mean per-frame displacement
// across the population. It keeps a bounded history for charting.
type SpeedMeter struct {
	prev    []float64
	history []float64
	max     int
	last    float64
	sum     float64
	samples int
}

// NewSpeedMeter returns a meter keeping up to history samples.
func NewSpeedMeter(history int) *SpeedMeter {
	if history < 1 {
		history = 1
	}
	return &SpeedMeter{max: history}
}

// Frame implements Observer. The first frame only primes the meter.
func (m *SpeedMeter) Frame(frame int, positions []float64) {
	if m.prev == nil {
		m.prev = append([]float64(nil), positions...)
		return
	}
	n := len(positions) / 2
	if n == 0 {
		return
	}
	total := 0.0
	for i := 0; i < n; i++ {
		dx := positions[2*i] - m.prev[2*i]
		dy := positions[2*i+1] - m.prev[2*i+1]
		total += math.Hypot(dx, dy)
	}
	copy(m.prev, positions)

	m.last = total / float64(n)
	m.sum += m.last
	m.samples++
	m.history = append(m.history, m.last)
	if len(m.history) > m.max {
		m.history = m.history[1:]
	}
}

// Last reports the most recent mean displacement.
func (m *SpeedMeter) Last() float64 { return m.last }

// Mean reports the mean displacement over all observed frames.
func (m *SpeedMeter) Mean() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

// History returns the bounded per-frame series, oldest first. The
// slice aliases the meter's state; copy it to keep it across frames.
func (m *SpeedMeter) History() []float64 { return m.history }
