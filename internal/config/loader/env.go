package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/trowel/internal/config"
)

// DefaultEnvPrefix is the prefix for configuration environment variables.
const DefaultEnvPrefix = "TROWEL_"

// EnvLoader loads top-level configuration keys from environment variables.
//
// TROWEL_AUTORENDER=false yields autorender=false and
// TROWEL_FROM_ELEMENT=1 yields fromElement=true.
type EnvLoader struct {
	prefix  string              // Environment variable prefix (e.g., "TROWEL_")
	lists   map[string]bool     // Keys parsed as comma-separated lists
	ignored map[string]struct{} // Variable names that aren't configuration
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "TROWEL_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		lists:   map[string]bool{config.KeyPlugins: true},
		ignored: make(map[string]struct{}),
		environ: os.Environ,
	}
}

// Ignore excludes variables (full names, including prefix) from loading.
func (l *EnvLoader) Ignore(names ...string) *EnvLoader {
	for _, name := range names {
		l.ignored[name] = struct{}{}
	}
	return l
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (config.Values, error) {
	values := make(config.Values)

	for _, env := range l.environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, skip := l.ignored[name]; skip {
			continue
		}

		key := l.envToKey(name)
		if key == "" {
			continue
		}
		if l.lists[key] {
			values[key] = parseList(value)
			continue
		}
		values[key] = parseValue(value)
	}

	return values, nil
}

// envToKey converts TROWEL_UNDO_MANAGER to undoManager.
func (l *EnvLoader) envToKey(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(strings.ToLower(name), "_")

	var sb strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// parseList splits a comma-separated value, dropping empty entries.
func parseList(s string) []any {
	items := make([]any, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	lower := strings.ToLower(s)
	if lower == "true" || lower == "yes" || lower == "on" || s == "1" {
		return true
	}
	if lower == "false" || lower == "no" || lower == "off" || s == "0" {
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only with a decimal point, to avoid misreading ints
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}
