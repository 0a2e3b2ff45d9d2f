package app

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// profiler appends per-tick section timings as CSV. A nil profiler is a no-op.
type profiler struct {
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
	tick   uint64
	start  time.Time
	last   time.Time
}

func newProfiler(path string, logger *log.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if logger != nil {
			logger.Printf("profiler disabled: %v", err)
		}
		return nil
	}
	p := &profiler{
		file:   f,
		logger: logger,
	}
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		fmt.Fprintln(p.file, "timestamp,tick,section,delta_ms")
	}
	return p
}

func (p *profiler) beginFrame(tick uint64) {
	if p == nil {
		return
	}
	now := time.Now()
	p.tick = tick
	p.start = now
	p.last = now
}

func (p *profiler) markSection(name string) {
	if p == nil {
		return
	}
	now := time.Now()
	delta := now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.log(name, delta)
}

func (p *profiler) endFrame() {
	if p == nil {
		return
	}
	p.log("frame_total", time.Since(p.start).Seconds()*1000)
}

func (p *profiler) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

func (p *profiler) log(section string, deltaMs float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return
	}
	timestamp := time.Now().Format(time.RFC3339Nano)
	fmt.Fprintf(p.file, "%s,%d,%s,%.3f\n", timestamp, p.tick, section, deltaMs)
}
