// Package plugin holds the process-wide plugin registry.
//
// A plugin is a Factory registered under an id. During editor
// initialization the factory for every configured id is looked up and
// called with the new editor instance and that plugin's options:
//
//	reg := plugin.NewRegistry()
//	reg.Register("blocks", func(ed editor.Instance, opts plugin.Options) error {
//	    if opts.Bool("flex") {
//	        // ...
//	    }
//	    return nil
//	})
//
// Registrations outlive individual editors: a plugin registered after one
// editor was created is visible to every later one. Registering an id
// again replaces the earlier factory.
//
// # Options
//
// Options holds the plugin's entry from pluginsOpts, copied for each call.
// Values keep their Go types, so callbacks and surface handles arrive
// unchanged through Value and Map. JSON-encodable values can also be read
// with gjson paths:
//
//	opts.String("blocks.category")
//	opts.Get("blocks.#").Int()
//
// With returns a modified copy, so a plugin can never change the options
// another plugin or another editor sees.
//
// # Lua plugins
//
// Subpackage lua turns Lua scripts into factories. See that package for
// the script API.
package plugin
