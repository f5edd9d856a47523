package plugin

import (
	"errors"
	"fmt"
)

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when no factory is registered for an id.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrInvalidOptions is returned for an unusable option document or path.
	ErrInvalidOptions = errors.New("invalid plugin options")
)

// NotFoundError reports a configured plugin id with no registered factory.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("plugin %q: %s", e.ID, ErrPluginNotFound)
}

// Is matches ErrPluginNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrPluginNotFound
}

// ApplyError wraps an error returned by a plugin factory.
type ApplyError struct {
	ID  string
	Err error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("plugin %q: %v", e.ID, e.Err)
}

// Unwrap returns the factory's error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}
