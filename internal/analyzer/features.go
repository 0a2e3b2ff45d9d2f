// Package analyzer turns audio frames into smoothed bar heights.
package analyzer

import "math"

// Spectrum holds the weighted per-bar magnitudes of one frame.
type Spectrum struct {
	Magnitudes []float64
	Max        float64
}

// Heights maps every magnitude through LogScale and stretches it to ceiling.
func (s Spectrum) Heights(ceiling float64) []float64 {
	out := make([]float64, len(s.Magnitudes))
	for i, m := range s.Magnitudes {
		out[i] = LogScale(m, s.Max) * ceiling
	}
	return out
}

// LogScale compresses magnitude relative to max into roughly [0, 1].
// A silent frame (max <= 0) scales to zero.
func LogScale(magnitude, max float64) float64 {
	if magnitude <= 0 || max <= 0 {
		return 0
	}
	return math.Log10(1 + 9*(magnitude/max))
}
