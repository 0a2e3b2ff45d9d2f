package bands

import (
	"errors"
	"testing"
)

func TestNewMapDefaultLayout(t *testing.T) {
	m, err := NewMap(32, 8)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	for i := 0; i < 32; i++ {
		if want := i / 4; m[i] != want {
			t.Fatalf("map[%d]=%d want=%d", i, m[i], want)
		}
	}
}

func TestNewMapNonDecreasing(t *testing.T) {
	for _, ranges := range []int{1, 2, 3, 4, 6, 12} {
		bars := ranges * 5
		m, err := NewMap(bars, ranges)
		if err != nil {
			t.Fatalf("NewMap(%d,%d): %v", bars, ranges, err)
		}
		seen := make(map[int]int)
		for i := range m {
			if m[i] < 0 || m[i] >= ranges {
				t.Fatalf("bar %d mapped out of range: %d", i, m[i])
			}
			if i > 0 && m[i] < m[i-1] {
				t.Fatalf("map decreases at bar %d", i)
			}
			seen[m[i]]++
		}
		for r := 0; r < ranges; r++ {
			if seen[r] != 5 {
				t.Fatalf("range %d got %d bars want 5", r, seen[r])
			}
		}
	}
}

func TestNewMapRejectsUneven(t *testing.T) {
	if _, err := NewMap(30, 8); !errors.Is(err, ErrUneven) {
		t.Fatalf("expected ErrUneven, got %v", err)
	}
	if _, err := NewMap(0, 8); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestBinRangeFirstBarIsDegenerate(t *testing.T) {
	start, end := BinRange(0, 32, 512)
	if start != 1 || end != 1 {
		t.Fatalf("bar 0: got [%d,%d) want [1,1)", start, end)
	}
}

func TestBinRangeCoversUpToUsableBins(t *testing.T) {
	_, end := BinRange(31, 32, 512)
	if end != 512 {
		t.Fatalf("last bar end=%d want 512", end)
	}
	prevEnd := 0
	for i := 0; i < 32; i++ {
		start, end := BinRange(i, 32, 512)
		if start < prevEnd {
			t.Fatalf("bar %d starts at %d before previous end %d", i, start, prevEnd)
		}
		if end < start {
			t.Fatalf("bar %d end %d < start %d", i, end, start)
		}
		prevEnd = end
	}
}

func TestBinRangeNoBins(t *testing.T) {
	if start, end := BinRange(3, 32, 0); start != 0 || end != 0 {
		t.Fatalf("got [%d,%d) want empty", start, end)
	}
}

func TestGainLookup(t *testing.T) {
	m := Default()
	g := Unity()
	g[7] = 0.25
	if got := m.Gain(g, 31); got != 0.25 {
		t.Fatalf("gain for bar 31=%f want 0.25", got)
	}
	if got := m.Gain(g, 0); got != 1 {
		t.Fatalf("gain for bar 0=%f want 1", got)
	}
}

func TestGainFollowsRange(t *testing.T) {
	m := Default()
	var g Gains
	for i := range g {
		g[i] = float64(i + 1)
	}
	for bar := 0; bar < m.Bars(); bar++ {
		r := m.Range(bar)
		if r != bar/4 {
			t.Fatalf("range for bar %d=%d want %d", bar, r, bar/4)
		}
		if got := m.Gain(g, bar); got != g[r] {
			t.Fatalf("gain for bar %d=%f want %f", bar, got, g[r])
		}
	}
}
