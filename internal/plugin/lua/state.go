package lua

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modal/internal/logger"
)

// DefaultExecutionTimeout bounds one Execute or Evaluate call.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua for running scripts.
//
// gopher-lua's LState is not goroutine-safe; every call takes the state
// mutex. Functions bound with Bind may be called while a key is being
// processed, so they must not block on the editor.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration

	sandbox *Sandbox
	bridge  *Bridge

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for Lua calls. Zero
// disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L
	openSafeLibraries(L)

	state.sandbox = NewSandbox(L)
	state.sandbox.Install()
	state.bridge = NewBridge(L)
	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// Each Open* leaves its module table on the stack.
	L.SetTop(0)

	// io, os and debug stay closed.
}

// Execute runs a chunk of Lua code, as :lua does.
func (s *State) Execute(code string) error {
	return s.do(func() error {
		return s.L.DoString(code)
	})
}

// ExecuteFile runs a Lua file.
func (s *State) ExecuteFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return s.do(func() error {
		return s.L.DoFile(path)
	})
}

// Evaluate returns the value of a Lua expression as text. nil is the empty
// string.
func (s *State) Evaluate(expr string) (string, error) {
	var out string
	err := s.do(func() error {
		top := s.L.GetTop()
		defer s.L.SetTop(top)
		if err := s.L.DoString("return " + expr); err != nil {
			return err
		}
		if s.L.GetTop() > top {
			out = s.bridge.ToString(s.L.Get(top + 1))
		}
		return nil
	})
	return out, err
}

// call runs a Lua function bound by a script, passing args.
func (s *State) call(fn *lua.LFunction, args ...lua.LValue) error {
	return s.do(func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
}

// do runs fn with the state locked, the timeout armed and panics
// recovered.
func (s *State) do(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("lua panic", "panic", r)
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Sandbox returns the sandbox of the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
