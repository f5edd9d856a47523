package editor

import "errors"

// Editor errors.
var (
	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("editor already initialized")

	// ErrNotInitialized is returned when rendering before Init.
	ErrNotInitialized = errors.New("editor not initialized")

	// ErrAlreadyLoaded is returned when the startup load runs twice.
	ErrAlreadyLoaded = errors.New("model already loaded")

	// ErrNoContainer is returned when rendering without a container surface.
	ErrNoContainer = errors.New("editor has no container")

	// ErrInvalidContent is returned when initial components or style have an unsupported shape.
	ErrInvalidContent = errors.New("invalid initial content")

	// ErrNilConfig is returned when constructing an editor without configuration.
	ErrNilConfig = errors.New("config is nil")
)
