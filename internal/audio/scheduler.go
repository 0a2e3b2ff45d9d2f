package audio

// Scheduler walks a circular window over a sample buffer one frame at a time.
type Scheduler struct {
	samples   []float64
	frameSize int
	cursor    int
}

// NewScheduler creates a Scheduler that hands out frameSize samples per call.
func NewScheduler(samples []float64, frameSize int) *Scheduler {
	if frameSize <= 0 {
		frameSize = 1024
	}
	return &Scheduler{samples: samples, frameSize: frameSize}
}

// FrameSize returns the number of samples returned by Next.
func (s *Scheduler) FrameSize() int { return s.frameSize }

// Cursor returns the index of the first sample of the next frame.
func (s *Scheduler) Cursor() int { return s.cursor }

// Next returns a copy of the frame at the cursor, zero-padded past the end of
// the buffer, and advances the cursor, wrapping to the start.
func (s *Scheduler) Next() []float64 {
	frame := make([]float64, s.frameSize)
	if s.cursor < len(s.samples) {
		copy(frame, s.samples[s.cursor:])
	}
	s.cursor += s.frameSize
	if s.cursor >= len(s.samples) {
		s.cursor = 0
	}
	return frame
}
