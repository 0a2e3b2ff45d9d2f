// Package filter applies per-band gains to a signal in the frequency domain.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/guidoenr/equalizer/internal/bands"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// maxPlanFactor is the largest prime factor of the input length that still goes
// through the real-to-complex plan. FFTPACK handles other factors in O(n*p), so
// longer prime factors switch to Bluestein's algorithm instead.
const maxPlanFactor = 256

// ErrInvalidGain is returned when a gain is NaN or infinite.
var ErrInvalidGain = errors.New("gain must be a finite number")

// Filter scales the bins of each bar by the gain of the band the bar belongs to.
type Filter struct {
	bars  bands.Map
	gains bands.Gains
}

// New creates a Filter for the given bar map and gains.
func New(m bands.Map, gains bands.Gains) (*Filter, error) {
	for i, g := range gains {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return nil, fmt.Errorf("%w: band %d = %v", ErrInvalidGain, i+1, g)
		}
	}
	return &Filter{bars: m, gains: gains}, nil
}

// Apply transforms input as one frame, scales it per bar and transforms it back.
// The result has the same length as input and input is left untouched.
func (f *Filter) Apply(input []float64) []float64 {
	n := len(input)
	if n < 2 {
		out := make([]float64, n)
		copy(out, input)
		return out
	}
	if largestPrimeFactor(n) > maxPlanFactor {
		return f.applyBluestein(input)
	}
	return f.applyPlan(input)
}

// applyPlan uses an unnormalized real-to-complex / complex-to-real pair over
// the n/2+1 non-negative frequency bins.
func (f *Filter) applyPlan(input []float64) []float64 {
	n := len(input)
	plan := fourier.NewFFT(n)
	coeff := plan.Coefficients(nil, input)

	f.eachBin(n/2, func(j int, gain float64) {
		coeff[j] = complex(real(coeff[j])*gain, imag(coeff[j])*gain)
	})

	out := plan.Sequence(make([]float64, n), coeff)
	scale := 1 / float64(n)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// applyBluestein works on the full complex spectrum, so every scaled bin j
// also scales its mirror n-j to keep the inverse real.
func (f *Filter) applyBluestein(input []float64) []float64 {
	n := len(input)
	spectrum := fft.FFTReal(input)

	f.eachBin(n/2, func(j int, gain float64) {
		g := complex(gain, 0)
		spectrum[j] *= g
		spectrum[n-j] *= g
	})

	// IFFT already divides by n.
	out := make([]float64, n)
	for i, v := range fft.IFFT(spectrum) {
		out[i] = real(v)
	}
	return out
}

// eachBin calls fn for every bin covered by a bar, with that bar's gain.
func (f *Filter) eachBin(usable int, fn func(bin int, gain float64)) {
	numBars := f.bars.Bars()
	for i := 0; i < numBars; i++ {
		start, end := bands.BinRange(i, numBars, usable)
		if start >= end {
			continue
		}
		gain := f.bars.Gain(f.gains, i)
		for j := start; j < end; j++ {
			fn(j, gain)
		}
	}
}

func largestPrimeFactor(n int) int {
	largest := 1
	for p := 2; p*p <= n; p++ {
		for n%p == 0 {
			largest = p
			n /= p
		}
	}
	if n > 1 {
		largest = n
	}
	return largest
}
