// Package lua provides the Lua interpreter behind :lua and <expr>
// mappings.
//
// This package wraps the gopher-lua library to provide:
//   - A sandboxed state without io, os or file loading
//   - An execution timeout on every call
//   - The modal module, binding scripts to the editor
//
// # State
//
//	state := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	defer state.Close()
//
//	if err := state.Bind(engine.ScriptHost()); err != nil {
//	    return err
//	}
//	engine.SetScript(state)
//
// A State satisfies the script interface of the input engine: Execute
// runs :lua code and Evaluate returns the keys an <expr> mapping types.
//
// # The modal module
//
// Bind installs a global table named modal, also available through
// require("modal"):
//
//	modal.feedkeys(keys [, remap])      -- queue keys in key notation
//	modal.mode()                        -- mode token: n, i, v, no, ...
//	modal.getreg(name)                  -- register text or nil
//	modal.setreg(name, text)            -- write a register
//	modal.map(modes, lhs, rhs [, opts]) -- rhs is keys or function(count)
//	modal.unmap(modes, lhs)
//	modal.get_option(name)
//	modal.set_option(name, value)
//	modal.message(...)                  -- print is an alias
//
// Keys fed from a script run after the key being processed, so scripts
// never re-enter the key handler.
package lua
