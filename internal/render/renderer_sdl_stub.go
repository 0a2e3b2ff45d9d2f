//go:build !sdl

package render

import "errors"

// SDL is unavailable in builds without the sdl tag.
type SDL struct{}

// NewSDL always fails without the sdl build tag.
func NewSDL(title string, width, height int) (*SDL, error) {
	return nil, errors.New("SDL backend not enabled; rebuild with -tags sdl")
}

func (s *SDL) Draw([]Bar) error { return ErrQuit }

func (s *SDL) Close() error { return nil }

func SupportsSDL() bool { return false }
