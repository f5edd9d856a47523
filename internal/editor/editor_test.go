package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/trowel/internal/config"
	"github.com/dshills/trowel/internal/surface"
)

func newConfig(t *testing.T, values config.Values) *config.Config {
	t.Helper()
	cfg, err := config.Decode(config.Resolve(values, config.Defaults()))
	require.NoError(t, err)
	return cfg
}

func TestConstruct(t *testing.T) {
	inst, err := Construct(newConfig(t, nil))
	require.NoError(t, err)
	assert.NotEmpty(t, inst.ID())

	other, err := Construct(newConfig(t, nil))
	require.NoError(t, err)
	assert.NotEqual(t, inst.ID(), other.ID())

	_, err = Construct(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestEditor_Init(t *testing.T) {
	ed := New(newConfig(t, config.Values{config.KeyUndoManager: false}))
	assert.False(t, ed.Initialized())

	require.NoError(t, ed.Init())
	assert.True(t, ed.Initialized())
	assert.False(t, ed.UndoManager())
	assert.True(t, ed.CopyPaste())

	assert.ErrorIs(t, ed.Init(), ErrAlreadyInitialized)
}

func TestEditor_Render(t *testing.T) {
	buf := surface.NewBuffer("gjs", 0, 0)
	cfg := newConfig(t, config.Values{
		config.KeyComponents: "<h1>Hello</h1>",
		config.KeyStyle:      "h1 { color: red }",
	})
	cfg.El = buf

	ed := New(cfg)
	assert.ErrorIs(t, ed.Render(), ErrNotInitialized)

	require.NoError(t, ed.Init())
	require.NoError(t, ed.Model().LoadOnStart())
	require.NoError(t, ed.Render())

	assert.Equal(t, 1, ed.Renders())
	assert.Equal(t, []string{
		"<span> text <h1>Hello</h1>",
		"style h1 { color: red }",
	}, buf.Lines())
}

func TestEditor_RenderWithoutContainer(t *testing.T) {
	ed := New(newConfig(t, nil))
	require.NoError(t, ed.Init())
	assert.ErrorIs(t, ed.Render(), ErrNoContainer)
	assert.Equal(t, 0, ed.Renders())
}

func TestEditor_Events(t *testing.T) {
	cfg := newConfig(t, nil)
	cfg.El = surface.NewBuffer("gjs", 0, 0)
	ed := New(cfg)

	var events []string
	ed.On(EventLoad, func(*Editor) { events = append(events, EventLoad) })
	ed.On(EventLoad, func(*Editor) { panic("boom") })
	off := ed.On(EventRender, func(*Editor) { events = append(events, EventRender) })

	require.NoError(t, ed.Init())
	require.NoError(t, ed.Model().LoadOnStart())
	require.NoError(t, ed.Render())
	off()
	require.NoError(t, ed.Render())

	assert.Equal(t, []string{EventLoad, EventRender}, events)
}

func TestPageModel_LoadStructured(t *testing.T) {
	cfg := newConfig(t, config.Values{
		config.KeyComponents: []any{
			map[string]any{
				"type":    "hero",
				"content": "Welcome",
				"components": []any{
					map[string]any{"type": "image", "attributes": map[string]any{"src": "a.png"}},
				},
			},
			map[string]any{"type": "mystery"},
		},
		config.KeyStyle: []any{
			map[string]any{"selectors": []any{".hero"}, "style": map[string]any{"padding": "1em", "color": "blue"}},
		},
	})

	m := NewPageModel(cfg)
	require.NoError(t, m.AddType("hero", "section"))
	require.NoError(t, m.LoadOnStart())
	assert.True(t, m.Loaded())

	comps := m.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, "hero", comps[0].Type)
	assert.Equal(t, "section", comps[0].TagName)
	require.Len(t, comps[0].Components, 1)
	assert.Equal(t, TypeImage, comps[0].Components[0].Type)
	assert.Equal(t, "a.png", comps[0].Components[0].Attributes["src"])
	assert.Equal(t, TypeDefault, comps[1].Type)

	require.Len(t, m.Rules(), 1)
	assert.Equal(t, []string{".hero"}, m.Rules()[0].Selectors)

	assert.Equal(t, []string{
		"<section> hero Welcome",
		"  <img> image",
		"<div> default",
		"rule .hero {color;padding}",
	}, m.Outline())

	assert.ErrorIs(t, m.LoadOnStart(), ErrAlreadyLoaded)
}

func TestPageModel_FromElement(t *testing.T) {
	cfg := newConfig(t, config.Values{
		config.KeyFromElement: true,
		config.KeyComponents:  "ignored",
	})
	cfg.El = surface.NewBufferWithContent("gjs", "<p>existing</p>")

	m := NewPageModel(cfg)
	require.NoError(t, m.LoadOnStart())

	comps := m.Components()
	require.Len(t, comps, 1)
	assert.Equal(t, "<p>existing</p>", comps[0].Content)
}

func TestPageModel_InvalidContent(t *testing.T) {
	m := NewPageModel(newConfig(t, config.Values{config.KeyComponents: 42}))
	err := m.LoadOnStart()
	assert.True(t, errors.Is(err, ErrInvalidContent))
	assert.False(t, m.Loaded())

	m = NewPageModel(newConfig(t, config.Values{config.KeyComponents: []any{"x"}}))
	assert.ErrorIs(t, m.LoadOnStart(), ErrInvalidContent)
}

func TestPageModel_TypesAndAttributes(t *testing.T) {
	m := NewPageModel(newConfig(t, nil))

	assert.Equal(t, []string{TypeDefault, TypeText, TypeImage, TypeLink, TypeWrapper}, m.Types())
	assert.False(t, m.HasType("form"))
	require.NoError(t, m.AddType("form", ""))
	assert.True(t, m.HasType("form"))
	assert.Error(t, m.AddType("  ", "div"))

	m.Set("title", "Landing")
	v, ok := m.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "Landing", v)
	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := New(newConfig(t, nil))
	b := New(newConfig(t, nil))

	r.Append(a)
	r.Append(b)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []Instance{a, b}, r.All())
	assert.Equal(t, b, r.At(1))
	assert.Nil(t, r.At(2))

	found, ok := r.Find(a.ID())
	assert.True(t, ok)
	assert.Equal(t, a, found)

	r.Reset()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	cfg := newConfig(t, nil)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Append(New(cfg))
			_ = r.All()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, r.Len())
}
