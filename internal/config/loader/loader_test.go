package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/trowel/internal/config"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestFileLoader_Formats(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/editor.toml", `
container = "#gjs"
autorender = false
plugins = ["blocks", "forms"]

[pluginsOpts.blocks]
flex = true
`)
	memfs.AddFile("/editor.yaml", `
container: "#gjs"
autorender: false
plugins: [blocks, forms]
pluginsOpts:
  blocks:
    flex: true
`)
	memfs.AddFile("/editor.json", `{
  "container": "#gjs",
  "autorender": false,
  "plugins": ["blocks", "forms"],
  "pluginsOpts": {"blocks": {"flex": true}}
}`)

	for _, path := range []string{"/editor.toml", "/editor.yaml", "/editor.json"} {
		t.Run(path, func(t *testing.T) {
			values, err := NewFileLoaderWithFS(memfs, path).Load()
			require.NoError(t, err)

			assert.Equal(t, "#gjs", values[config.KeyContainer])
			assert.Equal(t, false, values[config.KeyAutorender])
			assert.Equal(t, []any{"blocks", "forms"}, values[config.KeyPlugins])

			cfg, err := config.Decode(config.Resolve(values, config.Defaults()))
			require.NoError(t, err)
			assert.Equal(t, []string{"blocks", "forms"}, cfg.Plugins)
			assert.Equal(t, true, cfg.PluginOptions("blocks")["flex"])
		})
	}
}

func TestFileLoader_MissingFile(t *testing.T) {
	values, err := NewFileLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestFileLoader_UnsupportedFormat(t *testing.T) {
	_, err := NewFileLoaderWithFS(NewMemFS(), "/editor.ini").Load()
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}

func TestFileLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "container = \n")
	memfs.AddFile("/bad.json", `{"container": }`)
	memfs.AddFile("/bad.yaml", "container: [\n")

	for _, path := range []string{"/bad.toml", "/bad.json", "/bad.yaml"} {
		t.Run(path, func(t *testing.T) {
			_, err := NewFileLoaderWithFS(memfs, path).Load()
			require.Error(t, err)

			var pe *config.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, path, pe.Path)
		})
	}
}

func TestFileLoader_TOMLPosition(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "autorender = true\ncontainer = \n")

	_, err := NewFileLoaderWithFS(memfs, "/bad.toml").Load()

	var pe *config.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestLoadFromReader_EmptyDocument(t *testing.T) {
	values, err := LoadFromReader(FormatYAML, strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.NotNil(t, values)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.toml": FormatTOML,
		"a.TOML": FormatTOML,
		"a.yaml": FormatYAML,
		"a.yml":  FormatYAML,
		"a.json": FormatJSON,
		"a.txt":  FormatUnknown,
		"a":      FormatUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatOf(path), path)
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix).Ignore("TROWEL_LOG_LEVEL")
	l.environ = func() []string {
		return []string{
			"TROWEL_AUTORENDER=false",
			"TROWEL_FROM_ELEMENT=1",
			"TROWEL_UNDO_MANAGER=off",
			"TROWEL_CONTAINER=#gjs",
			"TROWEL_PLUGINS=blocks, forms,,",
			`TROWEL_PLUGINS_OPTS={"blocks":{"flex":true}}`,
			"TROWEL_LOG_LEVEL=debug",
			"HOME=/root",
		}
	}

	values, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, false, values[config.KeyAutorender])
	assert.Equal(t, true, values[config.KeyFromElement])
	assert.Equal(t, false, values[config.KeyUndoManager])
	assert.Equal(t, "#gjs", values[config.KeyContainer])
	assert.Equal(t, []any{"blocks", "forms"}, values[config.KeyPlugins])
	assert.Equal(t, map[string]any{"blocks": map[string]any{"flex": true}}, values[config.KeyPluginsOpts])
	assert.NotContains(t, values, "logLevel")
	assert.Len(t, values, 6)
}

func TestEnvLoader_envToKey(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)

	tests := map[string]string{
		"TROWEL_AUTORENDER":   "autorender",
		"TROWEL_COPY_PASTE":   "copyPaste",
		"TROWEL_PLUGINS_OPTS": "pluginsOpts",
		"TROWEL_":             "",
	}
	for env, want := range tests {
		assert.Equal(t, want, l.envToKey(env), env)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"NO", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"[1,2]", []any{float64(1), float64(2)}},
		{"#gjs", "#gjs"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
}

func TestMerge(t *testing.T) {
	base := config.Values{"a": 1, "b": 2}
	override := config.Values{"b": 3, "c": 4}

	merged := Merge(base, override)

	assert.Equal(t, config.Values{"a": 1, "b": 3, "c": 4}, merged)
	assert.Equal(t, 2, base["b"])
}
