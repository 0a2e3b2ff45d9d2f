// Package params holds the tunable constants of the equalizer and visualizer.
package params

import (
	"fmt"
	"time"

	"github.com/guidoenr/equalizer/internal/bands"
)

// Parameters controls frame size, bar layout and the visual response.
type Parameters struct {
	FrameSize    int
	NumBars      int
	NumRanges    int
	Smoothing    float64
	MinBarHeight float64
	MaxBarHeight float64
	Width        int
	Height       int
	OutputPath   string
}

// Defaults returns the values the visualizer was tuned with.
func Defaults() Parameters {
	return Parameters{
		FrameSize:    1024,
		NumBars:      bands.NumBars,
		NumRanges:    bands.NumRanges,
		Smoothing:    0.1,
		MinBarHeight: 5,
		MaxBarHeight: 600,
		Width:        800,
		Height:       600,
		OutputPath:   "filtered_output2.wav",
	}
}

// Validate reports the first inconsistent value.
func (p Parameters) Validate() error {
	if p.FrameSize < 2 {
		return fmt.Errorf("frame size must be at least 2 (got %d)", p.FrameSize)
	}
	if p.NumRanges != bands.NumRanges {
		return fmt.Errorf("range count must be %d (got %d)", bands.NumRanges, p.NumRanges)
	}
	if p.NumBars <= 0 || p.NumBars%p.NumRanges != 0 {
		return fmt.Errorf("bar count %d must be a positive multiple of %d", p.NumBars, p.NumRanges)
	}
	if p.Smoothing <= 0 || p.Smoothing > 1 {
		return fmt.Errorf("smoothing must be in (0, 1] (got %.3f)", p.Smoothing)
	}
	if p.Width < p.NumBars || p.Height <= 0 {
		return fmt.Errorf("invalid dimensions: width=%d height=%d", p.Width, p.Height)
	}
	return nil
}

// TickInterval returns how long one frame lasts at sampleRate.
func (p Parameters) TickInterval(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		sampleRate = 44_100
	}
	return time.Duration(float64(p.FrameSize) / float64(sampleRate) * float64(time.Second))
}
