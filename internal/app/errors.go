package app

import (
	"errors"
	"fmt"
)

// Initialization errors.
var (
	// ErrMissingDependency indicates the toolkit has no document to
	// resolve containers against.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrMissingRequiredOption indicates a required configuration key is
	// absent or falsy.
	ErrMissingRequiredOption = errors.New("missing required option")

	// ErrInvalidOption indicates a configuration key has an unusable value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrNoContainerMatch indicates a container selector matched no surface.
	ErrNoContainerMatch = errors.New("container selector matched nothing")
)

// Stage names a step of the initialization sequence.
type Stage string

// Initialization stages, in execution order.
const (
	StageConfig    Stage = "config"
	StageContainer Stage = "container"
	StageConstruct Stage = "construct"
	StageInit      Stage = "init"
	StagePlugins   Stage = "plugins"
	StageLoad      Stage = "load"
	StageRender    Stage = "render"
	StageRegister  Stage = "register"
)

// OptionError reports a configuration option that fails a precondition.
type OptionError struct {
	Option string // Configuration key (e.g., "container")
	Value  any    // Offending value, if any
	Err    error  // ErrMissingRequiredOption or ErrInvalidOption
}

func (e *OptionError) Error() string {
	if e == nil {
		return ""
	}
	if errors.Is(e.Err, ErrInvalidOption) {
		return fmt.Sprintf("option %q: %v (got %T)", e.Option, e.Err, e.Value)
	}
	return fmt.Sprintf("option %q: %v", e.Option, e.Err)
}

func (e *OptionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StageError wraps an error returned by a collaborator during a stage.
type StageError struct {
	Stage  Stage  // Stage that failed
	Target string // Plugin id or editor id, when relevant
	Err    error  // Underlying error
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Target != "" {
		return fmt.Sprintf("init: %s %s: %v", e.Stage, e.Target, e.Err)
	}
	return fmt.Sprintf("init: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Warning is a non-fatal problem met during initialization.
type Warning struct {
	Stage  Stage
	Target string
	Err    error
}

// String returns a readable form of the warning.
func (w Warning) String() string {
	if w.Target != "" {
		return fmt.Sprintf("%s %s: %v", w.Stage, w.Target, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Stage, w.Err)
}
