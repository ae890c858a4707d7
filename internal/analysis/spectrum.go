package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum computes the one-sided power spectrum of a scalar series.
// The mean is removed and a Hann window applied before the transform,
// so slow drift does not swamp the low bins. The zero-frequency bin is
// dropped: bin k holds k+1 cycles over the sampled span.
func Spectrum(series []float64) []float64 {
	n := len(series)
	if n < 4 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	buf := make([]float64, n)
	for i, v := range series {
		buf[i] = v - mean
	}
	window.Apply(buf, window.Hann)

	spec := fft.FFTReal(buf)
	power := make([]float64, n/2)
	for i := 1; i <= n/2; i++ {
		power[i-1] = cmplx.Abs(spec[i])
	}
	return power
}

// PeakBin returns the index of the strongest bin, or -1 for an empty
// spectrum.
func PeakBin(power []float64) int {
	best := -1
	max := 0.0
	for i, v := range power {
		if best < 0 || v > max {
			best, max = i, v
		}
	}
	return best
}
