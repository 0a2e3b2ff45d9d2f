// Package render lays out equalizer bars and draws them on a terminal or SDL window.
package render

import "errors"

// ErrQuit is returned by a backend when the user closed the display.
var ErrQuit = errors.New("renderer quit requested")

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Bar is one filled rectangle in canvas coordinates, origin top-left.
type Bar struct {
	X, Y, W, H int
	Color      RGB
}

// Backend draws a full frame of bars.
type Backend interface {
	Draw(bars []Bar) error
	Close() error
}

// Layout turns bar heights into rectangles on a width x height canvas.
// Bars share the width evenly and grow up from the bottom edge.
func Layout(heights []float64, width, height int) []Bar {
	n := len(heights)
	if n == 0 || width <= 0 || height <= 0 {
		return nil
	}
	barWidth := width / n
	bars := make([]Bar, n)
	for i, h := range heights {
		px := clampInt(int(h), 0, height)
		bars[i] = Bar{
			X:     i * barWidth,
			Y:     height - px,
			W:     barWidth,
			H:     px,
			Color: Gradient(i, n),
		}
	}
	return bars
}

// Gradient fades from blue-violet at the first bar to red at the last.
func Gradient(i, n int) RGB {
	if n <= 0 {
		return RGB{}
	}
	t := float64(i) / float64(n)
	return RGB{
		R: uint8(128 + 127*t),
		G: 0,
		B: uint8(255 - 127*t),
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
