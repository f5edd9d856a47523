package surface

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Terminal implements Surface on top of a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	id     string
	screen tcell.Screen
	style  tcell.Style
	closed bool
}

// NewTerminal creates a terminal surface on the process terminal.
// Init must be called before drawing.
func NewTerminal(id string) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(id, screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation screen.
func NewTerminalWithScreen(id string, screen tcell.Screen) *Terminal {
	return &Terminal{
		id:     id,
		screen: screen,
		style:  tcell.StyleDefault,
	}
}

// Init initializes the underlying screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Init()
}

// Close releases the screen. Further draws fail with ErrClosed.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

// WaitKey blocks until a key is pressed and returns it. It returns nil
// once the screen is finalized.
func (t *Terminal) WaitKey() *tcell.EventKey {
	t.mu.Lock()
	screen := t.screen
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return nil
	}
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			return ev
		}
	}
}

// SetStyle sets the style used for subsequent draws.
func (t *Terminal) SetStyle(style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.style = style
}

// ID implements Surface.
func (t *Terminal) ID() string {
	return t.id
}

// Size returns the screen dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Draw implements Surface.
func (t *Terminal) Draw(lines []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.screen.Clear()
	width, height := t.screen.Size()
	for y, line := range lines {
		if y >= height {
			break
		}
		x := 0
		g := uniseg.NewGraphemes(line)
		for g.Next() && x < width {
			runes := g.Runes()
			var combining []rune
			if len(runes) > 1 {
				combining = runes[1:]
			}
			t.screen.SetContent(x, y, runes[0], combining, t.style)
			w := g.Width()
			if w < 1 {
				w = 1
			}
			x += w
		}
	}
	t.screen.Show()
	return nil
}

// Content implements Surface by reading back the screen cells.
// Trailing blanks are trimmed from each row and trailing empty rows dropped.
func (t *Terminal) Content() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ""
	}

	width, height := t.screen.Size()
	rows := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			mainc, combc, _, w := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
			if mainc == 0 {
				mainc = ' '
			}
			sb.WriteRune(mainc)
			for _, r := range combc {
				sb.WriteRune(r)
			}
			if w > 1 {
				x += w - 1
			}
		}
		rows = append(rows, strings.TrimRight(sb.String(), " "))
	}

	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return strings.Join(rows, "\n")
}
