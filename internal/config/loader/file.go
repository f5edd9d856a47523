package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/trowel/internal/config"
)

// FileLoader loads configuration from a TOML, YAML or JSON file.
// The format is picked from the file extension.
type FileLoader struct {
	fs   FileSystem
	path string
}

// NewFileLoader creates a new file loader for the given path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewFileLoaderWithFS creates a file loader with a custom file system.
func NewFileLoaderWithFS(fs FileSystem, path string) *FileLoader {
	return &FileLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads configuration from the configured path.
func (l *FileLoader) Load() (config.Values, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *FileLoader) LoadFrom(path string) (config.Values, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, config.ErrUnsupportedFormat)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Parse(format, path, data)
}

// LoadFromReader reads configuration in the given format from r.
func LoadFromReader(format Format, r io.Reader) (config.Values, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(format, "<reader>", data)
}

// Parse decodes data in the given format. source names the input in errors.
func Parse(format Format, source string, data []byte) (config.Values, error) {
	var (
		values map[string]any
		err    error
	)

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &values)
	case FormatYAML:
		err = yaml.Unmarshal(data, &values)
	case FormatJSON:
		err = json.Unmarshal(data, &values)
	default:
		return nil, fmt.Errorf("%s: %w", source, config.ErrUnsupportedFormat)
	}

	if err != nil {
		return nil, parseError(source, err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return config.Values(values), nil
}

func parseError(source string, err error) *config.ParseError {
	pe := &config.ParseError{
		Path:    source,
		Message: err.Error(),
		Err:     err,
	}

	var tomlErr *toml.DecodeError
	if errors.As(err, &tomlErr) {
		pe.Line, pe.Column = tomlErr.Position()
	}

	var jsonErr *json.SyntaxError
	if errors.As(err, &jsonErr) {
		pe.Message = fmt.Sprintf("%s (offset %d)", jsonErr.Error(), jsonErr.Offset)
	}

	return pe
}
