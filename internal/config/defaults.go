package config

// Recognized configuration keys.
const (
	KeyContainer   = "container"
	KeyComponents  = "components"
	KeyStyle       = "style"
	KeyFromElement = "fromElement"
	KeyCopyPaste   = "copyPaste"
	KeyUndoManager = "undoManager"
	KeyPlugins     = "plugins"
	KeyPluginsOpts = "pluginsOpts"
	KeyAutorender  = "autorender"

	// KeyEl holds the resolved container surface. It is set during
	// initialization and is not meant to be supplied by callers.
	KeyEl = "el"
)

// Defaults returns the default editor configuration.
// A fresh map is returned on every call so instances never share
// the default slices and maps.
func Defaults() Values {
	return Values{
		// Initial content
		KeyComponents:  "",
		KeyStyle:       "",
		KeyFromElement: false,

		// Editing behavior
		KeyCopyPaste:   true,
		KeyUndoManager: true,

		// Plugins
		KeyPlugins:     []string{},
		KeyPluginsOpts: map[string]any{},

		// Rendering
		KeyAutorender: true,
	}
}
