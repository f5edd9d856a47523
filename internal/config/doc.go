// Package config provides editor configuration for Trowel.
//
// Callers describe an editor with a Values map, the loose key/value form
// that also comes out of configuration files and environment variables.
// The map is resolved against the built-in defaults once, then decoded into
// a typed Config which the rest of the system reads.
//
// # Resolution
//
// Resolve performs a shallow, key-level default fill:
//
//	values := config.Resolve(caller, config.Defaults())
//
// Every key present in the caller's map is kept verbatim, whatever its type
// or value (an explicit nil counts as present). Only keys absent from the
// caller's map receive the default. Nested maps are not merged.
//
// # Recognized keys
//
//	container    required; a surface.Surface or a selector string
//	components   initial content (markup string or structured list), default ""
//	style        initial styling, default ""
//	fromElement  load initial content from the container, default false
//	copyPaste    default true
//	undoManager  default true
//	plugins      ordered plugin ids, default empty
//	pluginsOpts  plugin id -> options object, default empty
//	autorender   render once after startup, default true
//
// Unrecognized keys are preserved in Config.Extra.
//
// # Sub-packages
//
//   - loader: reads Values from TOML, YAML and JSON files and TROWEL_
//     environment variables.
package config
