package audio

import (
	"math"
	"math/rand"
)

// SynthConfig describes a generated test signal.
type SynthConfig struct {
	SampleRate int
	Seconds    float64
	// Tones are frequencies in Hz; each gets an equal share of the amplitude.
	Tones []float64
	// Noise is the peak amplitude of added white noise.
	Noise float64
	Seed  int64
}

// DefaultTones spread one tone into each of the eight gain bands.
var DefaultTones = []float64{60, 200, 450, 900, 1800, 3600, 7200, 14000}

// Synthesize builds a mono buffer from cfg. The output is deterministic for a given seed.
func Synthesize(cfg SynthConfig) *Buffer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44_100
	}
	if cfg.Seconds <= 0 {
		cfg.Seconds = 5
	}
	if len(cfg.Tones) == 0 {
		cfg.Tones = DefaultTones
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	n := int(cfg.Seconds * float64(cfg.SampleRate))
	samples := make([]float64, n)
	amp := 0.8 / float64(len(cfg.Tones))
	rate := float64(cfg.SampleRate)
	for i := range samples {
		t := float64(i) / rate
		v := 0.0
		for k, f := range cfg.Tones {
			// slow tremolo per tone keeps the bars moving
			lfo := 0.5 + 0.5*math.Sin(2*math.Pi*(0.2+0.15*float64(k))*t)
			v += amp * lfo * math.Sin(2*math.Pi*f*t)
		}
		if cfg.Noise > 0 {
			v += (rng.Float64()*2 - 1) * cfg.Noise
		}
		samples[i] = clamp(v, -1, 1)
	}

	return &Buffer{
		Samples:    samples,
		Channels:   1,
		SampleRate: cfg.SampleRate,
		BitDepth:   16,
	}
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
