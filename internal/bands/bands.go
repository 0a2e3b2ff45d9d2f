// Package bands maps visual bars onto coarse gain ranges and frequency bins.
package bands

import (
	"errors"
	"fmt"
	"math"
)

const (
	// NumRanges is the number of user-configurable gain bands.
	NumRanges = 8
	// NumBars is the number of bars drawn by the visualizer.
	NumBars = 32
)

var (
	// ErrInvalidCount is returned when a bar or range count is not positive.
	ErrInvalidCount = errors.New("bar and range counts must be positive")
	// ErrUneven is returned when the bar count is not a multiple of the range count.
	ErrUneven = errors.New("bar count must be a multiple of range count")
)

// Labels describes the nominal frequency span of each gain band.
var Labels = [NumRanges]string{
	"0-100 hz",
	"100-300 hz",
	"300-600 hz",
	"600-1200 hz",
	"1200-2400 hz",
	"2400-4800 hz",
	"4800-9600 hz",
	"9600-22050 hz",
}

// Gains holds one multiplier per gain band.
type Gains [NumRanges]float64

// Unity returns gains that leave every band untouched.
func Unity() Gains {
	var g Gains
	for i := range g {
		g[i] = 1
	}
	return g
}

// Map assigns every bar to the gain band it belongs to.
type Map []int

// NewMap buckets numBars bars evenly into numRanges bands.
func NewMap(numBars, numRanges int) (Map, error) {
	if numBars <= 0 || numRanges <= 0 {
		return nil, fmt.Errorf("%w: bars=%d ranges=%d", ErrInvalidCount, numBars, numRanges)
	}
	if numBars%numRanges != 0 {
		return nil, fmt.Errorf("%w: bars=%d ranges=%d", ErrUneven, numBars, numRanges)
	}
	barsPerRange := numBars / numRanges
	m := make(Map, numBars)
	for i := range m {
		m[i] = i / barsPerRange
	}
	return m, nil
}

// Default returns the map for NumBars bars over NumRanges bands.
func Default() Map {
	m, err := NewMap(NumBars, NumRanges)
	if err != nil {
		panic(err)
	}
	return m
}

// Bars returns the number of bars in the map.
func (m Map) Bars() int { return len(m) }

// Range returns the band index of bar.
func (m Map) Range(bar int) int { return m[bar] }

// Gain returns the gain that applies to bar. Bands beyond the gain table get unity.
func (m Map) Gain(g Gains, bar int) float64 {
	r := m.Range(bar)
	if r < 0 || r >= len(g) {
		return 1
	}
	return g[r]
}

// BinRange returns the half-open bin interval [start, end) covered by bar when
// numBars bars are spread logarithmically over usableBins bins. The interval is
// empty (start >= end) for narrow low bars; callers skip those. Bin 0 is never
// covered since the first bar starts at 2^0.
func BinRange(bar, numBars, usableBins int) (start, end int) {
	if usableBins < 1 || numBars <= 0 {
		return 0, 0
	}
	span := math.Log2(float64(usableBins)) / float64(numBars)
	lo := math.Pow(2, float64(bar)*span)
	hi := math.Pow(2, float64(bar+1)*span)
	return int(lo), int(hi)
}
