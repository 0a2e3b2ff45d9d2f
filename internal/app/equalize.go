package app

import (
	"fmt"
	"log"
	"time"

	"github.com/guidoenr/equalizer/internal/audio"
	"github.com/guidoenr/equalizer/internal/bands"
	"github.com/guidoenr/equalizer/internal/filter"
)

// Equalize filters the whole buffer with gains and returns the filtered samples.
// When outPath is set the result is also written there as WAV; a failed write
// is logged and does not fail the call.
func Equalize(buf *audio.Buffer, bars bands.Map, gains bands.Gains, outPath string, logger *log.Logger) ([]float64, error) {
	f, err := filter.New(bars, gains)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	start := time.Now()
	filtered := f.Apply(buf.Samples)
	if logger != nil {
		logger.Printf("filtered %d samples in %v", len(filtered), time.Since(start).Round(time.Millisecond))
	}

	if outPath == "" {
		return filtered, nil
	}
	if err := audio.Save(outPath, filtered, buf); err != nil {
		if logger != nil {
			logger.Printf("failed to save filtered output: %v", err)
		}
		return filtered, nil
	}
	if logger != nil {
		logger.Printf("filtered output saved to %s", outPath)
	}
	return filtered, nil
}
