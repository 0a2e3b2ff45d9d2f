package params

import (
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestValidateRejectsUnevenBars(t *testing.T) {
	p := Defaults()
	p.NumBars = 30
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for 30 bars over 8 ranges")
	}
}

func TestTickInterval(t *testing.T) {
	p := Defaults()
	got := p.TickInterval(44_100)
	if got < 23*time.Millisecond || got > 24*time.Millisecond {
		t.Fatalf("interval=%v want ~23.2ms", got)
	}
}
