package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var (
	resetANSI       = "\x1b[0m"
	precomputedANSI [256]string
)

func init() {
	for i := range precomputedANSI {
		precomputedANSI[i] = "\x1b[38;5;" + strconv.Itoa(i) + "m"
	}
}

// TerminalConfig controls the terminal backend.
type TerminalConfig struct {
	// Canvas size the bars were laid out on.
	CanvasWidth  int
	CanvasHeight int
	// Fd is queried for the terminal size on every frame; -1 disables the query.
	Fd      int
	Columns int
	Rows    int
	Palette string
	UseANSI bool
}

// Terminal draws bars as colored columns of block glyphs.
type Terminal struct {
	out     *bufio.Writer
	cfg     TerminalConfig
	palette []rune
	status  string
	started bool
}

// NewTerminal creates a terminal backend writing to w.
func NewTerminal(w io.Writer, cfg TerminalConfig) (*Terminal, error) {
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("invalid canvas: width=%d height=%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 80
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}
	return &Terminal{
		out:     bufio.NewWriter(w),
		cfg:     cfg,
		palette: Palette(cfg.Palette),
	}, nil
}

// SetStatus sets the text shown below the bars.
func (t *Terminal) SetStatus(s string) { t.status = s }

// Draw renders one frame.
func (t *Terminal) Draw(bars []Bar) error {
	if !t.started {
		t.out.WriteString("\x1b[?1049h\x1b[2J\x1b[?25l")
		t.started = true
	}
	t.refreshSize()
	cols, rows := t.cfg.Columns, t.cfg.Rows
	barRows := rows - 1
	if barRows < 1 {
		barRows = 1
	}

	t.out.WriteString("\x1b[H")
	for _, line := range t.lines(bars, cols, barRows) {
		t.out.WriteString(line)
		t.out.WriteString("\r\n")
	}
	t.out.WriteString(statusBar(t.status, cols))
	return t.out.Flush()
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	if !t.started {
		return nil
	}
	t.started = false
	t.out.WriteString("\x1b[?25h\x1b[?1049l" + resetANSI)
	return t.out.Flush()
}

func (t *Terminal) refreshSize() {
	if t.cfg.Fd < 0 {
		return
	}
	w, h, err := term.GetSize(t.cfg.Fd)
	if err != nil || w <= 0 || h <= 0 {
		return
	}
	t.cfg.Columns = w
	t.cfg.Rows = h
}

// lines rasterizes bars into rows of glyphs, top row first.
func (t *Terminal) lines(bars []Bar, cols, rows int) []string {
	levels := len(t.palette) - 1
	// height of each column in glyph sub-steps
	fill := make([]int, cols)
	color := make([]RGB, cols)
	for x := 0; x < cols; x++ {
		cx := (2*x + 1) * t.cfg.CanvasWidth / (2 * cols)
		for _, b := range bars {
			if cx >= b.X && cx < b.X+b.W {
				fill[x] = b.H * rows * levels / t.cfg.CanvasHeight
				color[x] = b.Color
				break
			}
		}
	}

	out := make([]string, rows)
	for y := 0; y < rows; y++ {
		var builder strings.Builder
		builder.Grow(cols * 8)
		lastColor := -1
		base := (rows - 1 - y) * levels
		for x := 0; x < cols; x++ {
			level := clampInt(fill[x]-base, 0, levels)
			if t.cfg.UseANSI && level > 0 {
				code := rgbToANSI(color[x])
				if code != lastColor {
					builder.WriteString(precomputedANSI[code])
					lastColor = code
				}
			}
			builder.WriteRune(t.palette[level])
		}
		if t.cfg.UseANSI {
			builder.WriteString(resetANSI)
		}
		out[y] = builder.String()
	}
	return out
}

func statusBar(text string, width int) string {
	if width <= 0 {
		return text
	}
	if len(text) >= width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}

// rgbToANSI maps a color onto the 6x6x6 cube of the 256-color palette.
func rgbToANSI(c RGB) int {
	r := int(c.R) * 5 / 255
	g := int(c.G) * 5 / 255
	b := int(c.B) * 5 / 255
	return 16 + 36*r + 6*g + b
}
