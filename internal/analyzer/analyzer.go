package analyzer

import (
	"errors"
	"math"

	"github.com/guidoenr/equalizer/internal/bands"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyzer computes per-bar magnitudes of a time-domain frame.
type Analyzer struct {
	bars  bands.Map
	gains bands.Gains

	plan   *fourier.FFT
	coeffs []complex128
}

// Config controls Analyzer behavior.
type Config struct {
	Bars  bands.Map
	Gains bands.Gains
}

// New creates an Analyzer. A nil bar map falls back to bands.Default.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Bars == nil {
		cfg.Bars = bands.Default()
	}
	if cfg.Bars.Bars() == 0 {
		return nil, errors.New("analyzer needs at least one bar")
	}
	return &Analyzer{
		bars:  cfg.Bars,
		gains: cfg.Gains,
	}, nil
}

// Bars returns the number of bars produced per frame.
func (a *Analyzer) Bars() int { return a.bars.Bars() }

// Analyze returns the average bin magnitude of every bar in frame. Max is taken
// before gains are applied, so the configured gains show up relative to the
// loudest unweighted bar.
func (a *Analyzer) Analyze(frame []float64) Spectrum {
	numBars := a.bars.Bars()
	spec := Spectrum{Magnitudes: make([]float64, numBars)}
	if len(frame) < 2 {
		return spec
	}

	a.ensureWorkspace(len(frame))
	bins := a.plan.Coefficients(a.coeffs, frame)
	usable := len(frame) / 2

	for i := 0; i < numBars; i++ {
		start, end := bands.BinRange(i, numBars, usable)
		if start >= end {
			continue
		}
		sum := 0.0
		for _, c := range bins[start:end] {
			sum += cmag(c)
		}
		mag := sum / float64(end-start)
		spec.Magnitudes[i] = mag
		if mag > spec.Max {
			spec.Max = mag
		}
	}

	for i := range spec.Magnitudes {
		spec.Magnitudes[i] *= a.bars.Gain(a.gains, i)
	}
	return spec
}

func (a *Analyzer) ensureWorkspace(size int) {
	if a.plan == nil || a.plan.Len() != size {
		a.plan = fourier.NewFFT(size)
		a.coeffs = make([]complex128, size/2+1)
	}
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}
