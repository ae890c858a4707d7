package analysis

import (
	"math"
	"testing"

	"github.com/georgpou/particlebox/internal/storage"
)

func testRun() *storage.Run {
	return &storage.Run{
		Frames: []int{1, 2, 3},
		Positions: [][]float64{
			{0.2, 0.5, 0.8, 0.5},
			{0.3, 0.5, 0.8, 0.7},
			{0.4, 0.5, 0.8, 0.9},
		},
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestSeriesExtraction(t *testing.T) {
	run := testRun()

	x := XSeries(run, 0)
	if len(x) != 3 || !near(x[0], 0.2) || !near(x[2], 0.4) {
		t.Errorf("x series of particle 0 = %v", x)
	}
	y := YSeries(run, 1)
	if len(y) != 3 || !near(y[0], 0.5) || !near(y[2], 0.9) {
		t.Errorf("y series of particle 1 = %v", y)
	}
	if got := XSeries(run, 9); len(got) != 0 {
		t.Errorf("out-of-range particle yielded %v", got)
	}
}

func TestMeanSpeeds(t *testing.T) {
	run := testRun()

	speeds := MeanSpeeds(run)
	if len(speeds) != 2 {
		t.Fatalf("speed count = %d, want 2", len(speeds))
	}
	// particle 0 moves 0.1, particle 1 moves 0.2 on every step
	for i, v := range speeds {
		if !near(v, 0.15) {
			t.Errorf("speed[%d] = %g, want 0.15", i, v)
		}
	}

	short := &storage.Run{Frames: []int{1}, Positions: [][]float64{{0.5, 0.5}}}
	if got := MeanSpeeds(short); got != nil {
		t.Errorf("single sample yielded %v", got)
	}
}

func TestSpread(t *testing.T) {
	run := testRun()

	sp := Spread(run)
	if len(sp) != 3 {
		t.Fatalf("spread count = %d, want 3", len(sp))
	}
	// first sample: both particles 0.3 from the centroid
	if !near(sp[0], 0.3) {
		t.Errorf("spread[0] = %g, want 0.3", sp[0])
	}
	if !near(sp[2], math.Sqrt(0.08)) {
		t.Errorf("spread[2] = %g, want %g", sp[2], math.Sqrt(0.08))
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testRun())

	if s.Samples != 3 || s.Particles != 2 {
		t.Errorf("shape = %d samples / %d particles", s.Samples, s.Particles)
	}
	if !near(s.MeanSpeed, 0.15) || !near(s.MaxSpeed, 0.15) {
		t.Errorf("speeds = mean %g max %g", s.MeanSpeed, s.MaxSpeed)
	}
	if !near(s.Spread, math.Sqrt(0.08)) {
		t.Errorf("spread = %g", s.Spread)
	}

	empty := Summarize(&storage.Run{})
	if empty.Samples != 0 || empty.Particles != 0 || empty.MeanSpeed != 0 {
		t.Errorf("empty run summary = %+v", empty)
	}
}

func TestSpectrumPeak(t *testing.T) {
	const n, cycles = 64, 8
	series := make([]float64, n)
	for i := range series {
		series[i] = 0.5 + 0.1*math.Sin(2*math.Pi*cycles*float64(i)/n)
	}

	power := Spectrum(series)
	if len(power) != n/2 {
		t.Fatalf("spectrum length = %d, want %d", len(power), n/2)
	}
	// zero bin dropped, so cycles land at index cycles-1
	if got := PeakBin(power); got != cycles-1 {
		t.Errorf("peak bin = %d, want %d", got, cycles-1)
	}
}

func TestSpectrumFlat(t *testing.T) {
	series := []float64{3.5, 3.5, 3.5, 3.5, 3.5, 3.5, 3.5, 3.5}
	for i, v := range Spectrum(series) {
		if v > 1e-9 {
			t.Errorf("bin %d of a constant series = %g", i, v)
		}
	}
}

func TestSpectrumShortSeries(t *testing.T) {
	if got := Spectrum([]float64{1, 2, 3}); got != nil {
		t.Errorf("short series yielded %v", got)
	}
	if got := PeakBin(nil); got != -1 {
		t.Errorf("peak of empty spectrum = %d", got)
	}
}
