package surface

import (
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// Buffer is an in-memory surface with fixed dimensions.
// Lines wider than the buffer are clipped on grapheme boundaries;
// rows beyond the height are dropped.
type Buffer struct {
	mu            sync.RWMutex
	id            string
	width, height int
	rows          []string
	draws         int
}

// NewBuffer creates a buffer surface. A non-positive width or height
// means unbounded in that dimension.
func NewBuffer(id string, width, height int) *Buffer {
	return &Buffer{
		id:     id,
		width:  width,
		height: height,
	}
}

// NewBufferWithContent creates an unbounded buffer preloaded with content.
func NewBufferWithContent(id, content string) *Buffer {
	b := NewBuffer(id, 0, 0)
	if content != "" {
		b.rows = strings.Split(content, "\n")
	}
	return b
}

// ID implements Surface.
func (b *Buffer) ID() string {
	return b.id
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Content implements Surface.
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.rows, "\n")
}

// Lines returns a copy of the current rows.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.rows...)
}

// Draws returns how many times Draw has been called.
func (b *Buffer) Draws() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.draws
}

// Draw implements Surface.
func (b *Buffer) Draw(lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(lines)
	if b.height > 0 && n > b.height {
		n = b.height
	}

	rows := make([]string, n)
	for i := 0; i < n; i++ {
		rows[i] = clip(lines[i], b.width)
	}
	b.rows = rows
	b.draws++
	return nil
}

// clip truncates s to at most width display cells.
func clip(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}

	var sb strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		sb.WriteString(g.Str())
		used += w
	}
	return sb.String()
}
