package analyzer

import (
	"math"
	"testing"

	"github.com/guidoenr/equalizer/internal/bands"
)

func TestLogScale(t *testing.T) {
	if got := LogScale(0, 5); got != 0 {
		t.Fatalf("LogScale(0,5)=%f want 0", got)
	}
	if got := LogScale(3, 0); got != 0 {
		t.Fatalf("LogScale(3,0)=%f want 0", got)
	}
	if got := LogScale(2, 2); math.Abs(got-1) > 1e-12 {
		t.Fatalf("LogScale(2,2)=%f want 1", got)
	}
	if got := LogScale(-1, 2); got != 0 {
		t.Fatalf("LogScale(-1,2)=%f want 0", got)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	a, err := New(Config{Bars: bands.Default(), Gains: bands.Unity()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spec := a.Analyze(make([]float64, 1024))
	if spec.Max != 0 {
		t.Fatalf("max=%f want 0", spec.Max)
	}
	for i, m := range spec.Magnitudes {
		if m != 0 {
			t.Fatalf("magnitude[%d]=%f want 0", i, m)
		}
	}

	sm := NewSmoother(a.Bars(), 0.1, 5)
	for i, h := range sm.Update(spec.Heights(600)) {
		if h != 5 {
			t.Fatalf("height[%d]=%f want floor 5", i, h)
		}
	}
}

func TestAnalyzeFindsTone(t *testing.T) {
	const n = 1024
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * 200 * float64(i) / n)
	}
	a, err := New(Config{Bars: bands.Default(), Gains: bands.Unity()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spec := a.Analyze(frame)
	loudest := 0
	for i, m := range spec.Magnitudes {
		if m > spec.Magnitudes[loudest] {
			loudest = i
		}
	}
	if loudest != 27 {
		t.Fatalf("loudest bar=%d want 27", loudest)
	}
	if spec.Max != spec.Magnitudes[27] {
		t.Fatalf("max=%f want %f", spec.Max, spec.Magnitudes[27])
	}
}

func TestAnalyzeAppliesGainsAfterMax(t *testing.T) {
	const n = 1024
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * 200 * float64(i) / n)
	}
	g := bands.Unity()
	g[6] = 0.5
	a, err := New(Config{Bars: bands.Default(), Gains: g})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spec := a.Analyze(frame)
	if math.Abs(spec.Magnitudes[27]-spec.Max*0.5) > 1e-9 {
		t.Fatalf("weighted=%f want half of max %f", spec.Magnitudes[27], spec.Max)
	}
}

func TestSmootherConverges(t *testing.T) {
	sm := NewSmoother(4, 0.1, 5)
	sm.Update([]float64{400, 400, 400, 400})
	target := []float64{120, 120, 120, 120}
	var got []float64
	for i := 0; i < 500; i++ {
		got = sm.Update(target)
	}
	for i, h := range got {
		if math.Abs(h-120) > 1e-6 {
			t.Fatalf("height[%d]=%f want 120", i, h)
		}
	}
}

func TestSmootherFloor(t *testing.T) {
	sm := NewSmoother(2, 0.1, 5)
	got := sm.Update([]float64{10, 0})
	if got[0] != 5 || got[1] != 5 {
		t.Fatalf("heights=%v want floor 5", got)
	}
	got = sm.Update([]float64{600, 0})
	if math.Abs(got[0]-(60+0.9*5)) > 1e-9 {
		t.Fatalf("height[0]=%f want %f", got[0], 60+0.9*5)
	}
}
