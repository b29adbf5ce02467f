package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the name scripts require the editor API by.
const ModuleName = "modal"

// Sandbox restricts what scripts can load.
type Sandbox struct {
	L *lua.LState

	allowed map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L: L,
		allowed: map[string]bool{
			"string": true,
			"table":  true,
			"math":   true,
		},
	}
}

// Install removes the functions that load code from disk and replaces
// require with one that only returns preloaded and whitelisted modules.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// Allow lets require load a preloaded module.
func (s *Sandbox) Allow(module string) {
	s.allowed[module] = true
}

// IsAllowed reports whether require may load module.
func (s *Sandbox) IsAllowed(module string) bool {
	if s.allowed[module] {
		return true
	}
	return strings.HasPrefix(module, ModuleName+".")
}

func (s *Sandbox) installSafeRequire() {
	pkg, ok := s.L.GetGlobal("package").(*lua.LTable)
	if ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !s.IsAllowed(modName) {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}
