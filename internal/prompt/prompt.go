// Package prompt collects the band gains from the user.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guidoenr/equalizer/internal/bands"
)

// ErrTooFewGains is returned when input ends before every band has a gain.
var ErrTooFewGains = errors.New("not enough gains")

// Gains prints the band table to w (when non-nil) and reads one gain per band from r.
func Gains(r io.Reader, w io.Writer) (bands.Gains, error) {
	if w != nil {
		fmt.Fprintln(w, "frequency ranges for weights")
		for i, label := range bands.Labels {
			fmt.Fprintf(w, "%d: %s\n", i+1, label)
		}
		fmt.Fprintf(w, "enter weights for %d frequency ranges\n", bands.NumRanges)
	}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var g bands.Gains
	for i := range g {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return g, fmt.Errorf("read gain %d: %w", i+1, err)
			}
			return g, fmt.Errorf("%w: got %d of %d", ErrTooFewGains, i, bands.NumRanges)
		}
		v, err := parseGain(scanner.Text())
		if err != nil {
			return g, fmt.Errorf("gain %d: %w", i+1, err)
		}
		g[i] = v
	}
	return g, nil
}

// Parse reads gains from a comma or whitespace separated list such as "1,1,0.5,2,1,1,1,1".
func Parse(s string) (bands.Gains, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var g bands.Gains
	if len(fields) != len(g) {
		if len(fields) < len(g) {
			return g, fmt.Errorf("%w: got %d of %d", ErrTooFewGains, len(fields), len(g))
		}
		return g, fmt.Errorf("expected %d gains, got %d", len(g), len(fields))
	}
	for i, f := range fields {
		v, err := parseGain(f)
		if err != nil {
			return g, fmt.Errorf("gain %d: %w", i+1, err)
		}
		g[i] = v
	}
	return g, nil
}

func parseGain(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
