package analyzer

import "math"

// Smoother keeps an exponentially averaged height per bar.
type Smoother struct {
	heights []float64
	factor  float64
	floor   float64
}

// NewSmoother creates a Smoother for bars values. factor weights the newest
// value; floor is the minimum height reported for any bar.
func NewSmoother(bars int, factor, floor float64) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = 0.1
	}
	return &Smoother{
		heights: make([]float64, bars),
		factor:  factor,
		floor:   floor,
	}
}

// Update blends scaled into the running heights and returns them.
// The returned slice is owned by the Smoother and changes on the next call.
func (s *Smoother) Update(scaled []float64) []float64 {
	for i := range s.heights {
		v := 0.0
		if i < len(scaled) {
			v = scaled[i]
		}
		h := s.factor*v + (1-s.factor)*s.heights[i]
		s.heights[i] = math.Max(h, s.floor)
	}
	return s.heights
}
