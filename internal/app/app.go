package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/guidoenr/equalizer/internal/analyzer"
	"github.com/guidoenr/equalizer/internal/audio"
	"github.com/guidoenr/equalizer/internal/bands"
	"github.com/guidoenr/equalizer/internal/params"
	"github.com/guidoenr/equalizer/internal/render"
)

// Config configures the visualizer loop.
type Config struct {
	Buffer  *audio.Buffer
	Gains   bands.Gains
	Params  params.Parameters
	Backend render.Backend
	// Keyboard enables the q/Esc listener on the controlling terminal.
	Keyboard    bool
	ProfilePath string
	// Frames receives a copy of every tick's bar state; sends never block.
	Frames chan<- Frame
	Log    *log.Logger
}

// Frame is the bar state of one tick.
type Frame struct {
	Tick    uint64    `json:"tick"`
	Cursor  int       `json:"cursor"`
	Heights []float64 `json:"heights"`
}

type inputEvent int

const (
	inputEventQuit inputEvent = iota
)

type statusSetter interface {
	SetStatus(string)
}

// App replays the buffer through the analyzer and draws the bars.
type App struct {
	cfg         Config
	analyzer    *analyzer.Analyzer
	smoother    *analyzer.Smoother
	scheduler   *audio.Scheduler
	backend     render.Backend
	profiler    *profiler
	log         *log.Logger
	inputEvents chan inputEvent
	tick        uint64
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.Buffer == nil {
		return nil, errors.New("no audio buffer")
	}
	if cfg.Backend == nil {
		return nil, errors.New("no render backend")
	}
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}

	bars, err := bands.NewMap(cfg.Params.NumBars, cfg.Params.NumRanges)
	if err != nil {
		return nil, err
	}
	an, err := analyzer.New(analyzer.Config{Bars: bars, Gains: cfg.Gains})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		analyzer:  an,
		smoother:  analyzer.NewSmoother(bars.Bars(), cfg.Params.Smoothing, cfg.Params.MinBarHeight),
		scheduler: audio.NewScheduler(cfg.Buffer.Samples, cfg.Params.FrameSize),
		backend:   cfg.Backend,
		profiler:  newProfiler(cfg.ProfilePath, cfg.Log),
		log:       cfg.Log,
	}, nil
}

// Run draws one frame per tick until the context ends or the user quits.
func (a *App) Run(ctx context.Context) error {
	interval := a.cfg.Params.TickInterval(a.cfg.Buffer.SampleRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	inputCtx, cancelInput := context.WithCancel(ctx)
	defer cancelInput()
	if a.cfg.Keyboard {
		a.startInputListener(inputCtx)
	}

	a.log.Printf("visualizing %.1fs of audio, %d samples per frame every %v",
		a.cfg.Buffer.Duration(), a.scheduler.FrameSize(), interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-a.inputEvents:
			if !ok {
				a.inputEvents = nil
				continue
			}
			if evt == inputEventQuit {
				return nil
			}
		case <-ticker.C:
			if err := a.Step(); err != nil {
				if errors.Is(err, render.ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}

// Step analyzes the next frame and draws it.
func (a *App) Step() error {
	a.profiler.beginFrame(a.tick)
	cursor := a.scheduler.Cursor()
	frame := a.scheduler.Next()

	spec := a.analyzer.Analyze(frame)
	heights := a.smoother.Update(spec.Heights(a.cfg.Params.MaxBarHeight))
	a.profiler.markSection("analyze")

	if s, ok := a.backend.(statusSetter); ok {
		s.SetStatus(a.status(cursor))
	}
	bars := render.Layout(heights, a.cfg.Params.Width, a.cfg.Params.Height)
	if err := a.backend.Draw(bars); err != nil {
		return err
	}
	a.profiler.markSection("draw")
	a.profiler.endFrame()

	a.publish(cursor, heights)
	a.tick++
	return nil
}

// Close releases held resources.
func (a *App) Close() error {
	perr := a.profiler.Close()
	if err := a.backend.Close(); err != nil {
		return err
	}
	return perr
}

func (a *App) publish(cursor int, heights []float64) {
	if a.cfg.Frames == nil {
		return
	}
	cp := make([]float64, len(heights))
	copy(cp, heights)
	select {
	case a.cfg.Frames <- Frame{Tick: a.tick, Cursor: cursor, Heights: cp}:
	default:
	}
}

func (a *App) status(cursor int) string {
	rate := a.cfg.Buffer.SampleRate
	pos := 0.0
	if rate > 0 {
		pos = float64(cursor) / float64(rate)
	}
	return fmt.Sprintf("q: quit | %6.2fs / %.2fs | gains %v", pos, a.cfg.Buffer.Duration(), a.cfg.Gains)
}

func (a *App) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.log.Printf("keyboard input disabled: %v", err)
		a.inputEvents = nil
		return
	}

	events := make(chan inputEvent, 1)
	a.inputEvents = events

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			if key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || char == 'q' || char == 'Q' {
				events <- inputEventQuit
				return
			}
		}
	}()
}
