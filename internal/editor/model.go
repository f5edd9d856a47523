package editor

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/trowel/internal/config"
)

// Built-in component types.
const (
	TypeDefault = "default"
	TypeText    = "text"
	TypeImage   = "image"
	TypeLink    = "link"
	TypeWrapper = "wrapper"
)

// ComponentType describes a kind of component the model recognizes.
type ComponentType struct {
	Name string
	Tag  string
}

// Component is one node of the loaded content tree.
type Component struct {
	Type       string
	TagName    string
	Content    string
	Attributes map[string]any
	Components []*Component
}

// Rule is one structured style rule.
type Rule struct {
	Selectors    []string
	Declarations map[string]any
}

// PageModel is the reference data model: a component type registry,
// an attribute store and the content loaded at startup.
type PageModel struct {
	mu sync.RWMutex

	cfg *config.Config

	types     map[string]ComponentType
	typeOrder []string
	attrs     map[string]any

	components []*Component
	style      string
	rules      []Rule
	loaded     bool

	onLoad func()
}

// NewPageModel creates a model with the built-in component types.
func NewPageModel(cfg *config.Config) *PageModel {
	m := &PageModel{
		cfg:   cfg,
		types: make(map[string]ComponentType),
		attrs: make(map[string]any),
	}
	m.AddType(TypeDefault, "div")
	m.AddType(TypeText, "span")
	m.AddType(TypeImage, "img")
	m.AddType(TypeLink, "a")
	m.AddType(TypeWrapper, "body")
	return m
}

// AddType registers or replaces a component type.
// An empty tag defaults to "div".
func (m *PageModel) AddType(name, tag string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty type name", ErrInvalidContent)
	}
	if tag == "" {
		tag = "div"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.types[name]; !exists {
		m.typeOrder = append(m.typeOrder, name)
	}
	m.types[name] = ComponentType{Name: name, Tag: tag}
	return nil
}

// HasType reports whether a component type is registered.
func (m *PageModel) HasType(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.types[name]
	return ok
}

// Types returns registered type names in registration order.
func (m *PageModel) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.typeOrder)
}

// Set stores a model attribute.
func (m *PageModel) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attrs[key] = value
}

// Get returns a model attribute.
func (m *PageModel) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.attrs[key]
	return v, ok
}

// Loaded reports whether LoadOnStart has completed.
func (m *PageModel) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Components returns the loaded top-level components.
func (m *PageModel) Components() []*Component {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.components)
}

// Style returns the loaded style string.
func (m *PageModel) Style() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.style
}

// Rules returns the loaded structured style rules.
func (m *PageModel) Rules() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.rules)
}

// LoadOnStart implements Model. With fromElement set the container's
// current contents become the initial content; otherwise the configured
// components and style are loaded.
func (m *PageModel) LoadOnStart() error {
	m.mu.Lock()
	if m.loaded {
		m.mu.Unlock()
		return ErrAlreadyLoaded
	}

	var (
		components []*Component
		err        error
	)
	if m.cfg.FromElement {
		if el := m.cfg.El; el != nil {
			components = markup(el.Content())
		}
	} else {
		components, err = m.parseComponents(m.cfg.Components)
		if err != nil {
			m.mu.Unlock()
			return fmt.Errorf("%s: %w", config.KeyComponents, err)
		}
		if err := m.parseStyle(m.cfg.Style); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("%s: %w", config.KeyStyle, err)
		}
	}

	m.components = components
	m.loaded = true
	onLoad := m.onLoad
	m.mu.Unlock()

	if onLoad != nil {
		onLoad()
	}
	return nil
}

// markup wraps raw markup in a single text component.
func markup(content string) []*Component {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return []*Component{{Type: TypeText, TagName: "span", Content: content}}
}

// parseComponents must be called with the lock held.
func (m *PageModel) parseComponents(v any) ([]*Component, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case string:
		return markup(c), nil
	case map[string]any:
		comp, err := m.parseComponent(c)
		if err != nil {
			return nil, err
		}
		return []*Component{comp}, nil
	case []map[string]any:
		out := make([]*Component, 0, len(c))
		for _, item := range c {
			comp, err := m.parseComponent(item)
			if err != nil {
				return nil, err
			}
			out = append(out, comp)
		}
		return out, nil
	case []any:
		out := make([]*Component, 0, len(c))
		for i, item := range c {
			fields, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T", ErrInvalidContent, i, item)
			}
			comp, err := m.parseComponent(fields)
			if err != nil {
				return nil, err
			}
			out = append(out, comp)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidContent, v)
	}
}

func (m *PageModel) parseComponent(fields map[string]any) (*Component, error) {
	typeName, _ := fields["type"].(string)
	ct, known := m.types[typeName]
	if !known {
		ct = m.types[TypeDefault]
	}

	comp := &Component{Type: ct.Name, TagName: ct.Tag}
	if tag, ok := fields["tagName"].(string); ok && tag != "" {
		comp.TagName = tag
	}
	if content, ok := fields["content"].(string); ok {
		comp.Content = content
	}
	if attrs, ok := fields["attributes"].(map[string]any); ok {
		comp.Attributes = maps.Clone(attrs)
	}
	if children, ok := fields["components"]; ok {
		parsed, err := m.parseComponents(children)
		if err != nil {
			return nil, err
		}
		comp.Components = parsed
	}
	return comp, nil
}

// parseStyle must be called with the lock held.
func (m *PageModel) parseStyle(v any) error {
	switch s := v.(type) {
	case nil:
	case string:
		m.style = s
	case map[string]any:
		m.rules = []Rule{parseRule(s)}
	case []any:
		for i, item := range s {
			fields, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: rule %d is %T", ErrInvalidContent, i, item)
			}
			m.rules = append(m.rules, parseRule(fields))
		}
	default:
		return fmt.Errorf("%w: %T", ErrInvalidContent, v)
	}
	return nil
}

func parseRule(fields map[string]any) Rule {
	var r Rule
	switch sel := fields["selectors"].(type) {
	case string:
		r.Selectors = []string{sel}
	case []string:
		r.Selectors = slices.Clone(sel)
	case []any:
		for _, s := range sel {
			if str, ok := s.(string); ok {
				r.Selectors = append(r.Selectors, str)
			}
		}
	}
	if decl, ok := fields["style"].(map[string]any); ok {
		r.Declarations = maps.Clone(decl)
	}
	return r
}

// Outline returns a line-per-node description of the loaded content.
func (m *PageModel) Outline() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lines []string
	var walk func(comps []*Component, depth int)
	walk = func(comps []*Component, depth int) {
		for _, c := range comps {
			line := fmt.Sprintf("%s<%s> %s", strings.Repeat("  ", depth), c.TagName, c.Type)
			if c.Content != "" {
				line += " " + strings.Join(strings.Fields(c.Content), " ")
			}
			lines = append(lines, line)
			walk(c.Components, depth+1)
		}
	}
	walk(m.components, 0)

	if m.style != "" {
		lines = append(lines, "style "+strings.Join(strings.Fields(m.style), " "))
	}
	for _, r := range m.rules {
		props := make([]string, 0, len(r.Declarations))
		for k := range r.Declarations {
			props = append(props, k)
		}
		sort.Strings(props)
		lines = append(lines, fmt.Sprintf("rule %s {%s}", strings.Join(r.Selectors, ","), strings.Join(props, ";")))
	}
	return lines
}
