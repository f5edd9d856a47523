package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua plugin operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoEntryPoint is returned when a plugin directory has no entry file.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua)")

	// ErrInvalidManifest is returned when plugin.json can't be read.
	ErrInvalidManifest = errors.New("invalid plugin manifest")

	// ErrNoPageModel is returned to scripts when the editor has no page model.
	ErrNoPageModel = errors.New("editor does not expose a page model")

	// ErrWatcherClosed is returned when using a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// ScriptError reports a failure while running a plugin script.
type ScriptError struct {
	Plugin string
	Err    error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua plugin %q: %v", e.Plugin, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
