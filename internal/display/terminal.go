package display

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/eiannone/keyboard"
	"github.com/guidoenr/beatvis/internal/input"
	"github.com/guidoenr/beatvis/internal/render"
	"golang.org/x/term"
)

// Options selects and configures a surface.
type Options struct {
	// Terminal forces the ANSI terminal surface even when SDL is available.
	Terminal   bool
	ShowStatus bool
	// CellWidth and CellHeight are the virtual pixels per terminal cell.
	CellWidth  int
	CellHeight int
}

const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
	upperHalfBlock    = "▀"
	resetANSI         = "\x1b[0m"
)

// Terminal renders frames as 256-color half blocks and reads keys from the raw-mode terminal.
type Terminal struct {
	out        *bufio.Writer
	cols       int
	rows       int
	cellW      int
	cellH      int
	showStatus bool

	events    chan input.Event
	cancel    context.CancelFunc
	closeOnce sync.Once
	keysOpen  bool
	builder   strings.Builder
}

// OpenTerminal sizes the surface from the terminal and starts the key reader.
func OpenTerminal(opts Options) (*Terminal, error) {
	cols, rows := 80, 24
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			cols, rows = w, h
		}
	}

	t := newTerminal(os.Stdout, cols, rows, opts)
	if err := keyboard.Open(); err != nil {
		return nil, fmt.Errorf("keyboard: %w", err)
	}
	t.keysOpen = true

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.readKeys(ctx)

	enterAltScreen(t.out)
	clearScreen(t.out)
	hideCursor(t.out)
	_ = t.out.Flush()
	return t, nil
}

func openTerminalSurface(opts Options) (Surface, error) {
	t, err := OpenTerminal(opts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func newTerminal(w io.Writer, cols, rows int, opts Options) *Terminal {
	if opts.CellWidth <= 0 {
		opts.CellWidth = defaultCellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = defaultCellHeight
	}
	if opts.ShowStatus && rows > 1 {
		rows--
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Terminal{
		out:        bufio.NewWriterSize(w, cols*rows*24),
		cols:       cols,
		rows:       rows,
		cellW:      opts.CellWidth,
		cellH:      opts.CellHeight,
		showStatus: opts.ShowStatus,
		events:     make(chan input.Event, 16),
	}
}

func (t *Terminal) Size() (int, int) {
	return t.cols * t.cellW, t.rows * t.cellH
}

// Present samples two virtual pixels per cell, one for the glyph and one for the background.
func (t *Terminal) Present(frame *image.RGBA, status string) error {
	moveCursorHome(t.out)
	for row := 0; row < t.rows; row++ {
		t.out.WriteString(t.renderRow(frame, row))
		t.out.WriteString(resetANSI)
		if row < t.rows-1 || t.showStatus {
			t.out.WriteString("\r\n")
		}
	}
	if t.showStatus {
		t.out.WriteString(statusBar(status, t.cols))
	}
	return t.out.Flush()
}

func (t *Terminal) renderRow(frame *image.RGBA, row int) string {
	b := &t.builder
	b.Reset()
	lastFG, lastBG := -1, -1
	topY := row*t.cellH + t.cellH/4
	bottomY := row*t.cellH + 3*t.cellH/4
	for col := 0; col < t.cols; col++ {
		x := col*t.cellW + t.cellW/2
		fg := render.ANSIColor(pixelAt(frame, x, topY))
		bg := render.ANSIColor(pixelAt(frame, x, bottomY))
		if fg != lastFG {
			b.WriteString("\x1b[38;5;")
			b.WriteString(strconv.Itoa(fg))
			b.WriteByte('m')
			lastFG = fg
		}
		if bg != lastBG {
			b.WriteString("\x1b[48;5;")
			b.WriteString(strconv.Itoa(bg))
			b.WriteByte('m')
			lastBG = bg
		}
		b.WriteString(upperHalfBlock)
	}
	return b.String()
}

func pixelAt(frame *image.RGBA, x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(frame.Rect) {
		return color.RGBA{A: 255}
	}
	return frame.RGBAAt(x, y)
}

// Poll returns whatever keys arrived since the previous call.
func (t *Terminal) Poll() []input.Event {
	var events []input.Event
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func (t *Terminal) readKeys(ctx context.Context) {
	defer close(t.events)
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
		ev, ok := eventFromTerminal(char, key)
		if !ok {
			continue
		}
		select {
		case t.events <- ev:
		default:
		}
		if ev.Kind == input.EventQuit {
			return
		}
	}
}

// eventFromTerminal maps a terminal key press. Terminals do not see media keys, so +/- stand in
// for the volume keys.
func eventFromTerminal(char rune, key keyboard.Key) (input.Event, bool) {
	switch key {
	case keyboard.KeyEsc:
		return input.KeyEvent(input.KeyEscape), true
	case keyboard.KeyCtrlC:
		return input.QuitEvent(), true
	}
	switch char {
	case 'q', 'Q':
		return input.KeyEvent(input.KeyQ), true
	case 'e', 'E':
		return input.KeyEvent(input.KeyE), true
	case 'a', 'A':
		return input.KeyEvent(input.KeyA), true
	case 's', 'S':
		return input.KeyEvent(input.KeyS), true
	case 'd', 'D':
		return input.KeyEvent(input.KeyD), true
	case '+', '=':
		return input.KeyEvent(input.KeyVolumeUp), true
	case '-', '_':
		return input.KeyEvent(input.KeyVolumeDown), true
	}
	return input.Event{}, false
}

// Close stops the key reader and restores the terminal.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		if t.cancel != nil {
			t.cancel()
		}
		if t.keysOpen {
			_ = keyboard.Close()
		}
		showCursor(t.out)
		exitAltScreen(t.out)
		_ = t.out.Flush()
	})
	return nil
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

func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\x1b[2J")
	moveCursorHome(w)
}

func moveCursorHome(w io.Writer) {
	fmt.Fprint(w, "\x1b[H")
}

func hideCursor(w io.Writer) {
	fmt.Fprint(w, "\x1b[?25l")
}

func showCursor(w io.Writer) {
	fmt.Fprint(w, "\x1b[?25h")
}

func enterAltScreen(w io.Writer) {
	fmt.Fprint(w, "\x1b[?1049h")
}

func exitAltScreen(w io.Writer) {
	fmt.Fprint(w, "\x1b[?1049l\x1b[0m")
}
