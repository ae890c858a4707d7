// Package analysis derives scalar series and spectra from recorded
// runs. Everything works on storage.Run samples, so the stride chosen
// at record time is the sample interval throughout.
package analysis

import (
	"math"

	"github.com/georgpou/particlebox/internal/storage"
)

// XSeries returns particle i's x coordinate over the recorded samples.
func XSeries(run *storage.Run, i int) []float64 {
	traj := run.Trajectory(i)
	out := make([]float64, len(traj))
	for f, p := range traj {
		out[f] = p[0]
	}
	return out
}

// YSeries returns particle i's y coordinate over the recorded samples.
func YSeries(run *storage.Run, i int) []float64 {
	traj := run.Trajectory(i)
	out := make([]float64, len(traj))
	for f, p := range traj {
		out[f] = p[1]
	}
	return out
}

// MeanSpeeds returns the mean per-particle displacement between
// consecutive samples, one value per sample pair.
func MeanSpeeds(run *storage.Run) []float64 {
	if run.Len() < 2 {
		return nil
	}
	out := make([]float64, 0, run.Len()-1)
	for f := 1; f < len(run.Positions); f++ {
		prev, cur := run.Positions[f-1], run.Positions[f]
		n := len(cur) / 2
		if m := len(prev) / 2; m < n {
			n = m
		}
		if n == 0 {
			out = append(out, 0)
			continue
		}
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += math.Hypot(cur[2*i]-prev[2*i], cur[2*i+1]-prev[2*i+1])
		}
		out = append(out, sum/float64(n))
	}
	return out
}

// Spread returns the RMS distance of the particles from their centroid,
// one value per sample.
func Spread(run *storage.Run) []float64 {
	out := make([]float64, 0, run.Len())
	for _, pos := range run.Positions {
		n := len(pos) / 2
		if n == 0 {
			out = append(out, 0)
			continue
		}
		var cx, cy float64
		for i := 0; i < n; i++ {
			cx += pos[2*i]
			cy += pos[2*i+1]
		}
		cx /= float64(n)
		cy /= float64(n)
		var sum float64
		for i := 0; i < n; i++ {
			dx := pos[2*i] - cx
			dy := pos[2*i+1] - cy
			sum += dx*dx + dy*dy
		}
		out = append(out, math.Sqrt(sum/float64(n)))
	}
	return out
}

// Summary aggregates a recorded run.
type Summary struct {
	Samples   int
	Particles int
	MeanSpeed float64
	MaxSpeed  float64
	Spread    float64
}

// Summarize computes run-level statistics: mean and peak of the speed
// series plus the spread at the final sample.
func Summarize(run *storage.Run) Summary {
	s := Summary{Samples: run.Len()}
	if run.Len() > 0 {
		s.Particles = len(run.Positions[0]) / 2
	}
	speeds := MeanSpeeds(run)
	for _, v := range speeds {
		s.MeanSpeed += v
		if v > s.MaxSpeed {
			s.MaxSpeed = v
		}
	}
	if len(speeds) > 0 {
		s.MeanSpeed /= float64(len(speeds))
	}
	if sp := Spread(run); len(sp) > 0 {
		s.Spread = sp[len(sp)-1]
	}
	return s
}
