package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestSchedulerWrapsAndPads(t *testing.T) {
	samples := make([]float64, 10)
	for i := range samples {
		samples[i] = float64(i + 1)
	}
	s := NewScheduler(samples, 4)

	first := s.Next()
	if first[0] != 1 || first[3] != 4 {
		t.Fatalf("first frame=%v", first)
	}
	if s.Cursor() != 4 {
		t.Fatalf("cursor=%d want 4", s.Cursor())
	}
	s.Next()
	last := s.Next()
	if last[0] != 9 || last[1] != 10 || last[2] != 0 || last[3] != 0 {
		t.Fatalf("tail frame=%v want [9 10 0 0]", last)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor=%d want wrap to 0", s.Cursor())
	}
	again := s.Next()
	if again[0] != 1 {
		t.Fatalf("frame after wrap starts with %f want 1", again[0])
	}
}

func TestSchedulerExactMultipleWraps(t *testing.T) {
	s := NewScheduler(make([]float64, 8), 4)
	s.Next()
	s.Next()
	if s.Cursor() != 0 {
		t.Fatalf("cursor=%d want 0", s.Cursor())
	}
}

func TestSchedulerFrameIsCopy(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	s := NewScheduler(samples, 2)
	frame := s.Next()
	frame[0] = 99
	if samples[0] != 1 {
		t.Fatalf("scheduler frame aliases the source buffer")
	}
}

func TestSaveLoadMono(t *testing.T) {
	src := Synthesize(SynthConfig{SampleRate: 8000, Seconds: 0.25, Seed: 1})
	path := filepath.Join(t.TempDir(), "mono.wav")
	if err := Save(path, src.Samples, src); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Channels != 1 || got.SampleRate != 8000 || got.BitDepth != 16 {
		t.Fatalf("format=%d ch %d Hz %d bit", got.Channels, got.SampleRate, got.BitDepth)
	}
	if len(got.Samples) != len(src.Samples) {
		t.Fatalf("len=%d want %d", len(got.Samples), len(src.Samples))
	}
	for i := range got.Samples {
		if math.Abs(got.Samples[i]-src.Samples[i]) > 1.0/32768 {
			t.Fatalf("sample %d: got=%f want=%f", i, got.Samples[i], src.Samples[i])
		}
	}
}

func TestSaveStereoDuplicatesChannels(t *testing.T) {
	src := &Buffer{Samples: make([]float64, 8), Channels: 2, SampleRate: 8000, BitDepth: 16}
	filtered := []float64{0.5, -0.25, 0.125, 0, 0.1, 0.2, 0.3, 0.4}
	path := filepath.Join(t.TempDir(), "stereo.wav")
	if err := Save(path, filtered, src); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Channels != 2 || len(got.Samples) != len(filtered) {
		t.Fatalf("channels=%d len=%d", got.Channels, len(got.Samples))
	}
	want := []float64{0.5, 0.5, -0.25, -0.25, 0.125, 0.125, 0, 0}
	for i := range want {
		if math.Abs(got.Samples[i]-want[i]) > 1.0/32768 {
			t.Fatalf("sample %d: got=%f want=%f", i, got.Samples[i], want[i])
		}
	}
}

func TestToPCMClips(t *testing.T) {
	if got := toPCM(2, 16); got != 32767 {
		t.Fatalf("toPCM(2)=%d want 32767", got)
	}
	if got := toPCM(-2, 16); got != -32768 {
		t.Fatalf("toPCM(-2)=%d want -32768", got)
	}
	if got := fromPCM(128, 8); got != 0 {
		t.Fatalf("fromPCM(128,8)=%f want 0", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a := Synthesize(SynthConfig{SampleRate: 8000, Seconds: 0.1, Noise: 0.05, Seed: 9})
	b := Synthesize(SynthConfig{SampleRate: 8000, Seconds: 0.1, Noise: 0.05, Seed: 9})
	if len(a.Samples) != 800 {
		t.Fatalf("len=%d want 800", len(a.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs", i)
		}
		if math.Abs(a.Samples[i]) > 1 {
			t.Fatalf("sample %d out of range: %f", i, a.Samples[i])
		}
	}
}

func writeTaggedWAV(t *testing.T, tag int, samples []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tagged.wav")
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer out.Close()
	enc := wav.NewEncoder(out, 8000, 16, 1, tag)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestLoadExtensibleFormat(t *testing.T) {
	path := writeTaggedWAV(t, extensibleFormat, []int{0, 16384, -16384, 32767})
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []float64{0, 0.5, -0.5, 32767.0 / 32768}
	if len(got.Samples) != len(want) {
		t.Fatalf("len=%d want %d", len(got.Samples), len(want))
	}
	for i := range want {
		if math.Abs(got.Samples[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: got=%f want=%f", i, got.Samples[i], want[i])
		}
	}
}

func TestLoadRejectsFloatFormat(t *testing.T) {
	path := writeTaggedWAV(t, 3, []int{0, 1, 2, 3})
	if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Load: got=%v want=%v", err, ErrUnsupportedFormat)
	}
}

func TestSupportedFormat(t *testing.T) {
	for tag, want := range map[uint16]bool{1: true, 0xFFFE: true, 3: false, 0: false, 6: false} {
		if got := supportedFormat(tag); got != want {
			t.Fatalf("supportedFormat(%#x)=%v want %v", tag, got, want)
		}
	}
}
