//go:build sdl

package render

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL draws bars into a native window.
type SDL struct {
	window   *sdl.Window
	renderer *sdl.Renderer
}

// NewSDL opens a window of the given size.
func NewSDL(title string, width, height int) (*SDL, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO | sdl.INIT_TIMER); err != nil {
		return nil, fmt.Errorf("init SDL: %w", err)
	}
	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO | sdl.INIT_TIMER)
		return nil, fmt.Errorf("create window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO | sdl.INIT_TIMER)
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &SDL{window: window, renderer: renderer}, nil
}

// Draw clears the window, fills every bar and presents the frame. Pending
// window events are drained; a close request or Esc/q returns ErrQuit.
func (s *SDL) Draw(bars []Bar) error {
	if err := s.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	for _, b := range bars {
		if err := s.renderer.SetDrawColor(b.Color.R, b.Color.G, b.Color.B, 255); err != nil {
			return err
		}
		rect := sdl.Rect{X: int32(b.X), Y: int32(b.Y), W: int32(b.W), H: int32(b.H)}
		if err := s.renderer.FillRect(&rect); err != nil {
			return err
		}
	}
	s.renderer.Present()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return ErrQuit
		case *sdl.KeyboardEvent:
			if e.State == sdl.PRESSED && (e.Keysym.Sym == sdl.K_ESCAPE || e.Keysym.Sym == sdl.K_q) {
				return ErrQuit
			}
		}
	}
	return nil
}

// Close destroys the window and shuts SDL video down.
func (s *SDL) Close() error {
	if s.renderer != nil {
		_ = s.renderer.Destroy()
		s.renderer = nil
	}
	if s.window != nil {
		_ = s.window.Destroy()
		s.window = nil
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO | sdl.INIT_TIMER)
	return nil
}

func SupportsSDL() bool { return true }
