package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/trowel/internal/editor"
	"github.com/dshills/trowel/internal/plugin"
)

// EntryFunction is the global a script may define to receive the editor
// and its options after the chunk has run.
const EntryFunction = "plugin"

// pageEditor is implemented by editors that expose a page model.
type pageEditor interface {
	Page() *editor.PageModel
}

// NewFactory returns a plugin factory running source in a fresh state
// on every application.
func NewFactory(name, source string, opts ...StateOption) plugin.Factory {
	return func(ed editor.Instance, options plugin.Options) error {
		state, err := NewState(opts...)
		if err != nil {
			return &ScriptError{Plugin: name, Err: err}
		}
		defer func() {
			logger := state.Logger().WithField("plugin", name)
			for _, line := range state.Sandbox().Printed() {
				logger.Debug("print: %s", line)
			}
			_ = state.Close()
		}()

		bridge := NewBridge(state.LuaState())
		edTable := editorTable(state.LuaState(), bridge, ed)
		optsTable := bridge.ToLuaValue(options.Map())

		state.SetGlobal("editor", edTable)
		state.SetGlobal("opts", optsTable)

		if err := state.DoString(source); err != nil {
			return &ScriptError{Plugin: name, Err: err}
		}

		if state.GetGlobal(EntryFunction).Type() != lua.LTFunction {
			return nil
		}
		if _, err := state.Call(EntryFunction, edTable, optsTable); err != nil {
			return &ScriptError{Plugin: name, Err: err}
		}
		return nil
	}
}

// editorTable builds the table scripts use to reach the editor.
// Functions accept both editor.f(...) and editor:f(...) call styles.
func editorTable(L *lua.LState, bridge *Bridge, ed editor.Instance) *lua.LTable {
	tbl := L.NewTable()

	// arg returns the n-th user argument, skipping the receiver for
	// method-style calls.
	arg := func(L *lua.LState, n int) int {
		if L.Get(1) == lua.LValue(tbl) {
			return n + 1
		}
		return n
	}

	page := func(L *lua.LState) *editor.PageModel {
		pe, ok := ed.(pageEditor)
		if !ok || pe.Page() == nil {
			L.RaiseError("%s", ErrNoPageModel.Error())
			return nil
		}
		return pe.Page()
	}

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			L.Push(lua.LString(ed.ID()))
			return 1
		},
		"get": func(L *lua.LState) int {
			key := L.CheckString(arg(L, 1))
			v, ok := page(L).Get(key)
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(bridge.ToLuaValue(v))
			return 1
		},
		"set": func(L *lua.LState) int {
			key := L.CheckString(arg(L, 1))
			page(L).Set(key, bridge.ToGoValue(L.Get(arg(L, 2))))
			return 0
		},
		"add_type": func(L *lua.LState) int {
			name := L.CheckString(arg(L, 1))
			tag := L.OptString(arg(L, 2), "")
			if err := page(L).AddType(name, tag); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"has_type": func(L *lua.LState) int {
			name := L.CheckString(arg(L, 1))
			L.Push(lua.LBool(page(L).HasType(name)))
			return 1
		},
	})

	return tbl
}
