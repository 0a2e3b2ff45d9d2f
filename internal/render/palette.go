package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownPalette is returned for a palette name PaletteNames does not list.
var ErrUnknownPalette = errors.New("unknown palette")

var (
	blockPalette = []rune(" ▁▂▃▄▅▆▇█")
	asciiPalette = []rune(" .:-=+*#@")
)

// Palette returns the glyphs used for partial bar tops, from empty to full.
func Palette(name string) []rune {
	switch name {
	case "ascii":
		return asciiPalette
	default:
		return blockPalette
	}
}

// PaletteNames returns all palette identifiers.
func PaletteNames() []string {
	return []string{"blocks", "ascii"}
}

// CheckPalette reports whether name is one of PaletteNames.
func CheckPalette(name string) error {
	names := PaletteNames()
	if !slices.Contains(names, name) {
		return fmt.Errorf("%w %q (want %s)", ErrUnknownPalette, name, strings.Join(names, "|"))
	}
	return nil
}
