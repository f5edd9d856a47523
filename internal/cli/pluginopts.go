package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/trowel/internal/config"
)

// applyPluginOpts sets each id.path=value option into the pluginsOpts map
// of values. A value that is a JSON literal keeps its type; anything else
// is a string.
func applyPluginOpts(values config.Values, specs []string) error {
	if len(specs) == 0 {
		return nil
	}

	existing, _ := values[config.KeyPluginsOpts].(map[string]any)
	docs := make(map[string]string, len(existing))
	for id, opts := range existing {
		raw, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("plugin options for %s: %w", id, err)
		}
		docs[id] = string(raw)
	}

	for _, spec := range specs {
		id, path, value, err := parsePluginOpt(spec)
		if err != nil {
			return err
		}
		doc := docs[id]
		if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
			doc = "{}"
		}
		if gjson.Valid(value) {
			doc, err = sjson.SetRaw(doc, path, value)
		} else {
			doc, err = sjson.Set(doc, path, value)
		}
		if err != nil {
			return fmt.Errorf("plugin option %q: %w", spec, err)
		}
		docs[id] = doc
	}

	merged := make(map[string]any, len(docs))
	for id, doc := range docs {
		var opts map[string]any
		if err := json.Unmarshal([]byte(doc), &opts); err != nil {
			return fmt.Errorf("plugin options for %s: %w", id, err)
		}
		merged[id] = opts
	}
	values[config.KeyPluginsOpts] = merged
	return nil
}

// parsePluginOpt splits "id.path=value".
func parsePluginOpt(spec string) (id, path, value string, err error) {
	key, value, ok := strings.Cut(spec, "=")
	if !ok {
		return "", "", "", fmt.Errorf("plugin option %q: expected id.path=value", spec)
	}
	id, path, ok = strings.Cut(strings.TrimSpace(key), ".")
	if !ok || id == "" || path == "" {
		return "", "", "", fmt.Errorf("plugin option %q: expected id.path=value", spec)
	}
	return id, path, value, nil
}
