// Package lua turns Lua scripts into plugin factories.
//
// A script runs in a sandboxed gopher-lua state with only the base,
// table, string and math libraries. Two globals are set before the
// script runs: editor, the instance being initialized, and opts, the
// plugin's options as a table. If the script defines a global function
// named plugin it is then called as plugin(editor, opts):
//
//	function plugin(editor, opts)
//	  editor.add_type("hero", "section")
//	  if opts.title then
//	    editor.set("title", opts.title)
//	  end
//	end
//
// The editor table exposes:
//   - id() returns the instance id
//   - get(key) and set(key, value) read and write model attributes
//   - add_type(name, tag) registers a component type
//   - has_type(name) reports whether a component type is registered
//
// # Discovery
//
// Loader finds plugins in search paths. A plugin is either a single
// file:
//
//	plugins/hero.lua
//
// or a directory with an entry point and an optional manifest:
//
//	plugins/forms/
//	├── plugin.json   # {"name": "forms", "version": "1.0.0", "main": "init.lua"}
//	└── init.lua
//
// The first search path containing a name wins. Watcher keeps a
// registry in sync with the search paths as files change.
package lua
