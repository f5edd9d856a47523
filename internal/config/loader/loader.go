// Package loader provides configuration file loading for Trowel.
//
// The loader package parses configuration files in TOML, YAML and JSON and
// reads TROWEL_ environment variables into config.Values maps.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/trowel/internal/config"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (config.Values, error)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format identifies a configuration file syntax.
type Format int

const (
	// FormatUnknown is returned for unrecognized extensions.
	FormatUnknown Format = iota
	// FormatTOML is TOML.
	FormatTOML
	// FormatYAML is YAML.
	FormatYAML
	// FormatJSON is JSON.
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// Load reads the configuration file at path from the OS file system.
// A missing file yields nil, nil.
func Load(path string) (config.Values, error) {
	return NewFileLoader(path).Load()
}

// Merge returns a new map with the keys of override laid over base.
// The merge is shallow.
func Merge(base, override config.Values) config.Values {
	out := make(config.Values, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
