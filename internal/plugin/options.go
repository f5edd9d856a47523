package plugin

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Options is the option map passed to one plugin invocation.
//
// Values are kept as supplied: handles, callbacks and 64-bit integers
// reach the factory unchanged. Path reads (Get, String, Bool, Int, Has)
// go through a JSON view of the encodable values, built on first use;
// values JSON can't encode are left out of that view, or null inside lists.
//
// The zero value is empty.
type Options struct {
	values map[string]any
	view   *jsonView
}

type jsonView struct {
	once sync.Once
	raw  []byte
}

// NewOptions copies m into an option set. Nested maps and slices are
// copied so the caller's map and other invocations are unaffected; other
// values are shared.
func NewOptions(m map[string]any) Options {
	if len(m) == 0 {
		return Options{}
	}
	return Options{values: cloneMap(m), view: &jsonView{}}
}

// ParseOptions wraps an existing JSON object.
func ParseOptions(raw string) (Options, error) {
	if raw == "" {
		return Options{}, nil
	}
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return Options{}, fmt.Errorf("%w: not a JSON object", ErrInvalidOptions)
	}
	m, _ := gjson.Parse(raw).Value().(map[string]any)
	return NewOptions(m), nil
}

func (o Options) doc() []byte {
	if len(o.values) == 0 {
		return []byte("{}")
	}
	if o.view == nil {
		return encodeView(o.values)
	}
	o.view.once.Do(func() {
		o.view.raw = encodeView(o.values)
	})
	return o.view.raw
}

// Get returns the value at a gjson path.
func (o Options) Get(path string) gjson.Result {
	return gjson.GetBytes(o.doc(), path)
}

// Has reports whether path exists in the JSON view.
func (o Options) Has(path string) bool {
	return o.Get(path).Exists()
}

// String returns the value at path as a string.
func (o Options) String(path string) string {
	return o.Get(path).String()
}

// Bool returns the value at path as a bool.
func (o Options) Bool(path string) bool {
	return o.Get(path).Bool()
}

// Int returns the value at path as an int64.
func (o Options) Int(path string) int64 {
	return o.Get(path).Int()
}

// Value returns the top-level value stored under key, unchanged.
func (o Options) Value(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Map returns a copy of the options with original values.
func (o Options) Map() map[string]any {
	if len(o.values) == 0 {
		return map[string]any{}
	}
	return cloneMap(o.values)
}

// Raw returns the JSON view.
func (o Options) Raw() string {
	return string(o.doc())
}

// With returns a copy of the options with the dot-separated path set to
// value. Missing or non-map intermediate entries are replaced by maps.
func (o Options) With(path string, value any) (Options, error) {
	keys := strings.Split(path, ".")
	for _, k := range keys {
		if k == "" {
			return o, fmt.Errorf("%w: invalid path %q", ErrInvalidOptions, path)
		}
	}

	out := o.Map()
	m := out
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = value
	return Options{values: out, view: &jsonView{}}, nil
}

// IsEmpty reports whether there are no options.
func (o Options) IsEmpty() bool {
	return len(o.values) == 0
}

func cloneMap(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	}
	return v
}

// encodeView marshals the encodable part of m.
func encodeView(m map[string]any) []byte {
	raw, err := json.Marshal(encodable(m))
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// encodable drops map values json.Marshal rejects and nulls such list
// elements so indices stay put.
func encodable(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			if e, ok := encodableValue(item); ok {
				out[k] = e
			}
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			if e, ok := encodableValue(item); ok {
				out[i] = e
			}
		}
		return out
	}
	return v
}

func encodableValue(v any) (any, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return encodable(v), true
	}
	if _, err := json.Marshal(v); err != nil {
		return nil, false
	}
	return v, true
}
