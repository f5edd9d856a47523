package config

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jinzhu/copier"

	"github.com/dshills/trowel/internal/surface"
)

// Values is the loose key/value form of an editor configuration.
type Values map[string]any

// Has reports whether key is present, regardless of its value.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Clone returns a shallow copy of the map.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Resolve fills every key present in defaults but absent from caller with
// the default value. Keys already present in caller are kept verbatim.
// The result is a new map; neither input is modified.
func Resolve(caller, defaults Values) Values {
	resolved := caller.Clone()
	for key, value := range defaults {
		if _, present := resolved[key]; !present {
			resolved[key] = value
		}
	}
	return resolved
}

// Config is the typed view of a resolved configuration.
type Config struct {
	// Container is the caller-supplied container: a surface.Surface or a selector.
	Container any `mapstructure:"container"`

	// Components is the initial content: markup string or structured list.
	Components any `mapstructure:"components"`

	// Style is the initial styling: string or structured.
	Style any `mapstructure:"style"`

	// FromElement loads initial content from the container instead of Components.
	FromElement bool `mapstructure:"fromElement"`

	// CopyPaste enables copy and paste of components.
	CopyPaste bool `mapstructure:"copyPaste"`

	// UndoManager enables the undo manager.
	UndoManager bool `mapstructure:"undoManager"`

	// Plugins lists plugin ids in application order.
	Plugins []string `mapstructure:"plugins"`

	// PluginsOpts maps plugin id to that plugin's options.
	PluginsOpts map[string]map[string]any `mapstructure:"pluginsOpts"`

	// Autorender triggers a render once startup completes.
	Autorender bool `mapstructure:"autorender"`

	// Extra holds keys this package doesn't recognize.
	Extra map[string]any `mapstructure:",remain"`

	// El is the resolved container surface.
	El surface.Surface `mapstructure:"-"`
}

// PluginOptions returns the options configured for plugin id,
// or an empty map if none were supplied.
func (c *Config) PluginOptions(id string) map[string]any {
	if opts, ok := c.PluginsOpts[id]; ok && opts != nil {
		return opts
	}
	return map[string]any{}
}

// Clone returns a deep copy of the configuration. Container and El are
// handles and are shared, not copied.
func (c *Config) Clone() (*Config, error) {
	src := *c
	src.Container = nil
	src.El = nil

	var out Config
	if err := copier.CopyWithOption(&out, &src, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone config: %w", err)
	}
	out.Container = c.Container
	out.El = c.El
	return &out, nil
}

// Decode validates resolved values and decodes them into a Config.
func Decode(values Values) (*Config, error) {
	if err := validate(values); err != nil {
		return nil, err
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &cfg,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := decoder.Decode(map[string]any(values)); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &cfg, nil
}

var boolKeys = []string{KeyFromElement, KeyCopyPaste, KeyUndoManager, KeyAutorender}

// validate checks the shape of recognized keys so a type error names the key.
// A nil value is accepted for every key.
func validate(values Values) error {
	for _, key := range boolKeys {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		if _, isBool := v.(bool); !isBool {
			return mismatch(key, "bool", v)
		}
	}

	if v, ok := values[KeyPlugins]; ok && v != nil {
		switch list := v.(type) {
		case []string:
		case []any:
			for _, item := range list {
				if _, isString := item.(string); !isString {
					return mismatch(KeyPlugins, "list of plugin ids", v)
				}
			}
		default:
			return mismatch(KeyPlugins, "list of plugin ids", v)
		}
	}

	if v, ok := values[KeyPluginsOpts]; ok && v != nil {
		switch opts := v.(type) {
		case map[string]map[string]any:
		case map[string]any:
			for _, entry := range opts {
				if entry == nil {
					continue
				}
				if _, isMap := entry.(map[string]any); !isMap {
					return mismatch(KeyPluginsOpts, "map of plugin options", v)
				}
			}
		default:
			return mismatch(KeyPluginsOpts, "map of plugin options", v)
		}
	}

	return nil
}

func mismatch(key, expected string, value any) *DecodeError {
	return &DecodeError{Key: key, Expected: expected, Value: value, Err: ErrTypeMismatch}
}
