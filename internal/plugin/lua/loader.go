package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/trowel/internal/plugin"
)

// ManifestFile is the optional manifest inside a directory plugin.
const ManifestFile = "plugin.json"

// DefaultMain is the entry point of a directory plugin.
const DefaultMain = "init.lua"

// Info describes a discovered plugin.
type Info struct {
	Name        string
	Version     string
	Description string

	// Dir is the plugin directory for directory plugins, or the
	// search path holding a single-file plugin.
	Dir string

	// Main is the entry file path.
	Main string

	// Source is the file or directory that defines the plugin.
	Source string

	// Err is set when the plugin was found but can't be loaded.
	Err error
}

// Loader discovers Lua plugins in search paths.
type Loader struct {
	// Search paths for plugins (checked in order)
	paths []string

	stateOpts []StateOption
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPaths sets the plugin search paths.
func WithPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.paths = paths
	}
}

// WithStateOptions sets the options for the states factories create.
func WithStateOptions(opts ...StateOption) LoaderOption {
	return func(l *Loader) {
		l.stateOpts = opts
	}
}

// NewLoader creates a new plugin loader searching DefaultPluginPaths
// unless WithPaths is given.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		paths: DefaultPluginPaths(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPluginPaths returns the default plugin search paths.
func DefaultPluginPaths() []string {
	paths := make([]string, 0, 2)

	// Project plugins: .trowel/plugins/
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".trowel", "plugins"))
	}

	// User plugins: ~/.config/trowel/plugins/
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "trowel", "plugins"))
	}

	return paths
}

// Paths returns the configured search paths.
func (l *Loader) Paths() []string {
	return append([]string(nil), l.paths...)
}

// Discover finds all plugins in the search paths, sorted by name.
// Plugins that were found but are broken are returned with Err set.
func (l *Loader) Discover() ([]*Info, error) {
	discovered := make(map[string]*Info)

	for _, basePath := range l.paths {
		if err := l.discoverInPath(basePath, discovered); err != nil {
			return nil, err
		}
	}

	plugins := make([]*Info, 0, len(discovered))
	for _, info := range discovered {
		plugins = append(plugins, info)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins, nil
}

// discoverInPath finds plugins in a single directory.
func (l *Loader) discoverInPath(basePath string, discovered map[string]*Info) error {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Not an error if path doesn't exist
		}
		return fmt.Errorf("reading plugin path %s: %w", basePath, err)
	}

	for _, entry := range entries {
		info := l.Inspect(filepath.Join(basePath, entry.Name()))
		if info == nil {
			continue
		}
		// Don't override earlier discoveries (first path wins)
		if _, exists := discovered[info.Name]; !exists {
			discovered[info.Name] = info
		}
	}
	return nil
}

// Inspect examines a path directly inside a search path and returns the
// plugin it defines, or nil if it isn't a plugin.
func (l *Loader) Inspect(path string) *Info {
	stat, err := os.Stat(path)
	if err != nil {
		return nil
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return nil
	}

	if !stat.IsDir() {
		if filepath.Ext(base) != ".lua" {
			return nil
		}
		return &Info{
			Name:   strings.TrimSuffix(base, ".lua"),
			Dir:    filepath.Dir(path),
			Main:   path,
			Source: path,
		}
	}

	info := &Info{
		Name:   base,
		Dir:    path,
		Main:   filepath.Join(path, DefaultMain),
		Source: path,
	}

	manifestPath := filepath.Join(path, ManifestFile)
	if data, err := os.ReadFile(manifestPath); err == nil {
		if !gjson.ValidBytes(data) {
			info.Err = fmt.Errorf("%w: %s", ErrInvalidManifest, manifestPath)
			return info
		}
		manifest := gjson.ParseBytes(data)
		if name := manifest.Get("name").String(); name != "" {
			info.Name = name
		}
		info.Version = manifest.Get("version").String()
		info.Description = manifest.Get("description").String()
		if main := manifest.Get("main").String(); main != "" {
			if !insideDir(path, main) {
				info.Err = fmt.Errorf("%w: main %q is outside %s", ErrInvalidManifest, main, path)
				return info
			}
			info.Main = filepath.Join(path, filepath.Clean(main))
		}
	}

	if _, err := os.Stat(info.Main); err != nil {
		info.Err = fmt.Errorf("%w: %s", ErrNoEntryPoint, path)
	}
	return info
}

// insideDir reports whether the relative path rel stays within dir.
func insideDir(dir, rel string) bool {
	if filepath.IsAbs(rel) {
		return false
	}
	r, err := filepath.Rel(dir, filepath.Join(dir, rel))
	if err != nil {
		return false
	}
	return r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator))
}

// Find returns the plugin named name, searching paths in order.
func (l *Loader) Find(name string) (*Info, error) {
	plugins, err := l.Discover()
	if err != nil {
		return nil, err
	}
	for _, info := range plugins {
		if info.Name == name {
			return info, nil
		}
	}
	return nil, &plugin.NotFoundError{ID: name}
}

// Factory reads the plugin's entry file and returns its factory.
func (l *Loader) Factory(info *Info) (plugin.Factory, error) {
	if info.Err != nil {
		return nil, info.Err
	}
	source, err := os.ReadFile(info.Main)
	if err != nil {
		return nil, fmt.Errorf("reading plugin %s: %w", info.Name, err)
	}
	return NewFactory(info.Name, string(source), l.stateOpts...), nil
}

// Register registers one discovered plugin.
func (l *Loader) Register(reg *plugin.Registry, info *Info) error {
	factory, err := l.Factory(info)
	if err != nil {
		return err
	}
	reg.Register(info.Name, factory)
	return nil
}

// RegisterAll discovers every plugin and registers the loadable ones.
// It returns the registered plugins and the errors of the broken ones.
func (l *Loader) RegisterAll(reg *plugin.Registry) ([]*Info, error) {
	plugins, err := l.Discover()
	if err != nil {
		return nil, err
	}

	registered := make([]*Info, 0, len(plugins))
	var errs []error
	for _, info := range plugins {
		if err := l.Register(reg, info); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", info.Name, err))
			continue
		}
		registered = append(registered, info)
	}
	return registered, errors.Join(errs...)
}
