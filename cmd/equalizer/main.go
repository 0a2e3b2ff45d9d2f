package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/guidoenr/equalizer/internal/app"
	"github.com/guidoenr/equalizer/internal/audio"
	"github.com/guidoenr/equalizer/internal/bands"
	"github.com/guidoenr/equalizer/internal/params"
	"github.com/guidoenr/equalizer/internal/prompt"
	"github.com/guidoenr/equalizer/internal/render"
	"github.com/guidoenr/equalizer/internal/web"
	"golang.org/x/term"
)

// SDL must be driven from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	defaults := params.Defaults()
	var (
		output    = flag.String("output", defaults.OutputPath, "Path of the filtered WAV file")
		gainsFlag = flag.String("gains", "", "Comma separated gains for the 8 bands (skips the prompt)")
		frameSize = flag.Int("frame-size", defaults.FrameSize, "Samples analyzed per visualizer frame")
		useSDL    = flag.Bool("sdl", render.SupportsSDL(), "Draw in an SDL window instead of the terminal")
		palette   = flag.String("palette", "blocks", "Terminal bar palette (blocks|ascii)")
		noColor   = flag.Bool("no-color", false, "Disable ANSI color output")
		noVisual  = flag.Bool("no-visual", false, "Filter and save, then exit")
		synthetic = flag.Bool("synthetic", false, "Use a generated test signal instead of a WAV file")
		webPort   = flag.Int("web-port", 0, "Serve bar state on this port (0 disables)")
		profile   = flag.String("profile", "", "Append per-frame timings to this CSV file")
		debug     = flag.Bool("debug", false, "Enable verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file_name.wav>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stdout, "[equalizer] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	p := defaults
	p.FrameSize = *frameSize
	p.OutputPath = *output
	if err := p.Validate(); err != nil {
		logger.Fatalf("invalid parameters: %v", err)
	}
	if err := render.CheckPalette(*palette); err != nil {
		logger.Fatalf("invalid -palette: %v", err)
	}

	var (
		buf   *audio.Buffer
		input string
		err   error
	)
	switch {
	case *synthetic:
		input = "synthetic"
		buf = audio.Synthesize(audio.SynthConfig{Noise: 0.02})
	case flag.NArg() == 1:
		input = flag.Arg(0)
		buf, err = audio.Load(input)
		if err != nil {
			logger.Fatalf("failed to open audio file: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	logger.Printf("loaded %s: %d samples, %d channel(s) @ %d Hz", input, len(buf.Samples), buf.Channels, buf.SampleRate)
	if buf.Channels > 1 {
		logger.Printf("%d channels are filtered as one interleaved stream", buf.Channels)
	}

	bars, err := bands.NewMap(p.NumBars, p.NumRanges)
	if err != nil {
		logger.Fatalf("band map: %v", err)
	}

	gains, err := readGains(*gainsFlag)
	if err != nil {
		logger.Fatalf("gains: %v", err)
	}

	if _, err := app.Equalize(buf, bars, gains, p.OutputPath, logger); err != nil {
		logger.Fatalf("filter: %v", err)
	}
	if *noVisual {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, err := newBackend(*useSDL, *palette, !*noColor, p)
	if err != nil {
		logger.Fatalf("renderer: %v", err)
	}

	var frames chan app.Frame
	if *webPort > 0 {
		frames = make(chan app.Frame, 8)
		srv := web.NewServer(web.Info{
			Input:      input,
			Output:     p.OutputPath,
			SampleRate: buf.SampleRate,
			Channels:   buf.Channels,
			Duration:   buf.Duration(),
			NumBars:    p.NumBars,
			Gains:      gains,
		}, logger)
		go func() {
			if err := srv.Start(ctx, fmt.Sprintf(":%d", *webPort), frames); err != nil {
				logger.Printf("[web] server stopped: %v", err)
			}
		}()
	}

	a, err := app.New(app.Config{
		Buffer:      buf,
		Gains:       gains,
		Params:      p,
		Backend:     backend,
		Keyboard:    !*useSDL,
		ProfilePath: *profile,
		Frames:      frames,
		Log:         logger,
	})
	if err != nil {
		_ = backend.Close()
		logger.Fatalf("failed to create app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Printf("runtime error: %v", err)
	}
}

func readGains(flagValue string) (bands.Gains, error) {
	if flagValue != "" {
		return prompt.Parse(flagValue)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return prompt.Gains(os.Stdin, os.Stdout)
	}
	return prompt.Gains(os.Stdin, nil)
}

func newBackend(useSDL bool, palette string, useANSI bool, p params.Parameters) (render.Backend, error) {
	if useSDL {
		window, err := render.NewSDL("Equalizer", p.Width, p.Height)
		if err != nil {
			return nil, err
		}
		return window, nil
	}
	terminal, err := render.NewTerminal(os.Stdout, render.TerminalConfig{
		CanvasWidth:  p.Width,
		CanvasHeight: p.Height,
		Fd:           int(os.Stdout.Fd()),
		Palette:      palette,
		UseANSI:      useANSI,
	})
	if err != nil {
		return nil, err
	}
	return terminal, nil
}
