package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Read(t *testing.T) {
	opts := NewOptions(map[string]any{
		"flex":     true,
		"category": "Basic",
		"blocks":   []any{"text", "image"},
		"limits":   map[string]any{"max": 3},
	})

	assert.True(t, opts.Bool("flex"))
	assert.Equal(t, "Basic", opts.String("category"))
	assert.Equal(t, int64(2), opts.Get("blocks.#").Int())
	assert.Equal(t, "image", opts.String("blocks.1"))
	assert.Equal(t, int64(3), opts.Int("limits.max"))
	assert.True(t, opts.Has("limits"))
	assert.False(t, opts.Has("missing"))
	assert.False(t, opts.IsEmpty())
}

func TestOptions_Empty(t *testing.T) {
	for _, opts := range []Options{{}, NewOptions(nil), NewOptions(map[string]any{})} {
		assert.True(t, opts.IsEmpty())
		assert.Equal(t, "{}", opts.Raw())
		assert.Equal(t, map[string]any{}, opts.Map())
	}
}

func TestOptions_Isolation(t *testing.T) {
	src := map[string]any{"count": 1, "nested": map[string]any{"n": 1}, "list": []any{"a"}}
	opts := NewOptions(src)

	src["count"] = 2
	src["nested"].(map[string]any)["n"] = 2
	src["list"].([]any)[0] = "b"
	assert.Equal(t, int64(1), opts.Int("count"))
	assert.Equal(t, int64(1), opts.Int("nested.n"))
	assert.Equal(t, "a", opts.String("list.0"))

	m := opts.Map()
	m["count"] = 99
	m["nested"].(map[string]any)["n"] = 99
	assert.Equal(t, int64(1), opts.Int("count"))
	assert.Equal(t, int64(1), opts.Int("nested.n"))

	changed, err := opts.With("count", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), changed.Int("count"))
	assert.Equal(t, int64(1), opts.Int("count"))

	nested, err := Options{}.With("a.b", "c")
	require.NoError(t, err)
	assert.Equal(t, "c", nested.String("a.b"))
}

func TestOptions_KeepsOriginalValues(t *testing.T) {
	called := false
	onSave := func() { called = true }
	ch := make(chan int)
	handle := &struct{ name string }{name: "canvas"}

	opts := NewOptions(map[string]any{
		"onSave": onSave,
		"events": ch,
		"target": handle,
		"id":     int64(9007199254740993),
		"title":  "Landing",
		"hooks":  []any{onSave, "named"},
	})

	v, ok := opts.Value("onSave")
	require.True(t, ok)
	v.(func())()
	assert.True(t, called)

	m := opts.Map()
	assert.Equal(t, int64(9007199254740993), m["id"])
	assert.Same(t, handle, m["target"])
	assert.Equal(t, ch, m["events"])

	assert.Equal(t, int64(9007199254740993), opts.Int("id"))
	assert.Equal(t, "Landing", opts.String("title"))
	assert.False(t, opts.Has("onSave"))
	assert.False(t, opts.Has("events"))
	assert.Equal(t, int64(2), opts.Get("hooks.#").Int())
	assert.Equal(t, "named", opts.String("hooks.1"))
}

func TestOptions_Invalid(t *testing.T) {
	_, err := ParseOptions("[1,2]")
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = NewOptions(nil).With("a..b", 1)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts, err := ParseOptions(`{"x":"y"}`)
	require.NoError(t, err)
	assert.Equal(t, "y", opts.String("x"))
	assert.Equal(t, map[string]any{"x": "y"}, opts.Map())
}
