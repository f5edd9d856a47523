package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Functions removed from the base library.
var dangerousFuncs = []string{
	"dofile",     // Load and execute file
	"loadfile",   // Load file as function
	"load",       // Load string as function
	"loadstring", // Load string as function (deprecated but may exist)
	"module",     // Registers modules through package
}

// Modules require may return.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	printed []string
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafePrint()
	s.installSafeRequire()
}

// installSafePrint replaces print so output is captured instead of
// written to stdout.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		line := ""
		for i := 1; i <= n; i++ {
			if i > 1 {
				line += "\t"
			}
			line += L.ToStringMeta(L.Get(i)).String()
		}
		s.printed = append(s.printed, line)
		return 0
	}))
}

// installSafeRequire replaces require with a version that only returns
// already opened safe libraries.
func (s *Sandbox) installSafeRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !safeModules[modName] {
			// L.RaiseError does a longjmp, so code after it is unreachable.
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(L.GetGlobal(modName))
		return 1
	}))
}

// Printed returns the lines written with print.
func (s *Sandbox) Printed() []string {
	return append([]string(nil), s.printed...)
}
