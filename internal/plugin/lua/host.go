package lua

import (
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"
)

// Host is the editor as seen from scripts.
type Host interface {
	FeedKeys(keys string, remap bool) error
	Mode() string
	Register(name rune) (string, bool)
	SetRegister(name rune, text string) bool
	Map(modes, lhs, rhs string, noremap bool) error
	MapFunc(modes, lhs string, fn func(count int) error) error
	Unmap(modes, lhs string) error
	Option(name string) (string, bool)
	SetOption(name, value string) error
	Message(msg string)
}

// Bind installs the modal module for host, both as a global and for
// require, and sends print output to the host's message line.
func (s *State) Bind(host Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	api := &hostAPI{state: s, host: host}
	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"feedkeys":   api.feedkeys,
		"mode":       api.mode,
		"getreg":     api.getreg,
		"setreg":     api.setreg,
		"map":        api.mapKeys,
		"unmap":      api.unmap,
		"get_option": api.getOption,
		"set_option": api.setOption,
		"message":    api.message,
	})
	s.L.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	s.sandbox.Allow(ModuleName)
	s.L.SetGlobal(ModuleName, mod)
	s.L.SetGlobal("print", s.L.NewFunction(api.message))
	return nil
}

type hostAPI struct {
	state *State
	host  Host
}

// feedkeys(keys [, remap])
func (a *hostAPI) feedkeys(L *lua.LState) int {
	keys := L.CheckString(1)
	remap := L.OptBool(2, true)
	if err := a.host.FeedKeys(keys, remap); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (a *hostAPI) mode(L *lua.LState) int {
	L.Push(lua.LString(a.host.Mode()))
	return 1
}

func (a *hostAPI) getreg(L *lua.LState) int {
	text, ok := a.host.Register(checkRegister(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

func (a *hostAPI) setreg(L *lua.LState) int {
	name := checkRegister(L, 1)
	text := L.CheckString(2)
	L.Push(lua.LBool(a.host.SetRegister(name, text)))
	return 1
}

// map(modes, lhs, rhs [, {noremap = bool}]). rhs is key notation or a
// function called with the count.
func (a *hostAPI) mapKeys(L *lua.LState) int {
	modes := L.CheckString(1)
	lhs := L.CheckString(2)

	var err error
	switch rhs := L.Get(3).(type) {
	case *lua.LFunction:
		err = a.host.MapFunc(modes, lhs, func(count int) error {
			return a.state.call(rhs, lua.LNumber(count))
		})
	case lua.LString:
		noremap := false
		if opts, ok := L.Get(4).(*lua.LTable); ok {
			noremap = lua.LVAsBool(opts.RawGetString("noremap"))
		}
		err = a.host.Map(modes, lhs, string(rhs), noremap)
	default:
		L.ArgError(3, "string or function expected")
		return 0
	}
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (a *hostAPI) unmap(L *lua.LState) int {
	if err := a.host.Unmap(L.CheckString(1), L.CheckString(2)); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (a *hostAPI) getOption(L *lua.LState) int {
	v, ok := a.host.Option(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

func (a *hostAPI) setOption(L *lua.LState) int {
	name := L.CheckString(1)
	value := a.state.bridge.ToString(L.CheckAny(2))
	if err := a.host.SetOption(name, value); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// message(...) joins its arguments with spaces, as print does.
func (a *hostAPI) message(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	a.host.Message(strings.Join(parts, " "))
	return 0
}

func checkRegister(L *lua.LState, n int) rune {
	s := L.CheckString(n)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		L.ArgError(n, "register name expected")
	}
	return r
}
