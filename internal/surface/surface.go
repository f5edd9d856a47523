// Package surface provides the rendering surfaces editors draw into and the
// Document used to resolve container selectors to surfaces.
package surface

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned by surfaces.
var (
	// ErrClosed is returned when drawing to a closed surface.
	ErrClosed = errors.New("surface is closed")

	// ErrDuplicateID is returned when a document already holds a surface with the same id.
	ErrDuplicateID = errors.New("duplicate surface id")

	// ErrEmptyID is returned when adding a surface without an id.
	ErrEmptyID = errors.New("surface id is empty")
)

// Surface is a target an editor renders into.
type Surface interface {
	// ID returns the identifier selectors match against.
	ID() string

	// Content returns the text currently shown on the surface, one line per row.
	Content() string

	// Draw replaces the surface contents with lines.
	Draw(lines []string) error
}

// Document resolves selectors to surfaces.
type Document interface {
	// QuerySelector returns the first surface matching selector, or nil.
	QuerySelector(selector string) Surface
}

// Tree is an in-process Document holding surfaces in insertion order.
// Supported selectors: "#id", ".class" and a bare id.
type Tree struct {
	mu      sync.RWMutex
	order   []Surface
	byID    map[string]Surface
	classes map[string][]string
}

// NewTree creates an empty document tree.
func NewTree() *Tree {
	return &Tree{
		byID:    make(map[string]Surface),
		classes: make(map[string][]string),
	}
}

// Add attaches a surface to the tree with optional class names.
func (t *Tree) Add(s Surface, classes ...string) error {
	id := s.ID()
	if id == "" {
		return ErrEmptyID
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[id]; exists {
		return ErrDuplicateID
	}
	t.byID[id] = s
	t.order = append(t.order, s)
	if len(classes) > 0 {
		t.classes[id] = append([]string(nil), classes...)
	}
	return nil
}

// QuerySelector implements Document.
func (t *Tree) QuerySelector(selector string) Surface {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	switch selector[0] {
	case '#':
		return t.byID[selector[1:]]
	case '.':
		class := selector[1:]
		for _, s := range t.order {
			for _, c := range t.classes[s.ID()] {
				if c == class {
					return s
				}
			}
		}
		return nil
	default:
		return t.byID[selector]
	}
}

// Len returns the number of surfaces in the tree.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
