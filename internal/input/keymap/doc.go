// Package keymap holds user and extension key mappings and the state used
// to resolve them while keys arrive.
//
// A mapping replaces a key sequence typed in one mapping mode. Its right
// hand side is one of four kinds:
//
//	ToKeys        replay other keys, as :map j gj does
//	ToExpression  evaluate a script expression and replay its result
//	ToHandler     call an extension function, optionally asynchronous
//	ToAction      run a named host action
//
// # Registry
//
// Registry stores mappings in one prefix tree per mapping mode so that
// both "is this an exact mapping" and "could more keys still complete a
// mapping" are single walks. Every mapping carries an Owner; extensions
// create theirs with NewOwner and drop all of their mappings at once with
// RemoveByOwner.
//
// # Resolution state
//
// State tracks how deeply mappings are being expanded, the keys typed so
// far that are still ambiguous, and the timer that resolves the
// ambiguity. Timers are scheduled through a Scheduler and carry a token;
// only the token of the most recent timer is current, so a timer that
// fires after a key already resolved the sequence does nothing.
//
// KeyStack is the LIFO of replacement keys being fed back through the key
// handler. A mapping expanded while another is replaying pushes a new
// frame, which is drained first.
//
// # Usage
//
//	reg := keymap.NewRegistry()
//	owner := keymap.NewOwner("surround")
//	reg.Put(mode.N, key.MustParseSequence("ys"), owner,
//	    keymap.ToHandler(surround), false)
//
//	m := reg.Lookup(mode.MapNormal, typed)
//	if m == nil && reg.HasPrefix(mode.MapNormal, typed) {
//	    // wait for more keys
//	}
//
//	reg.RemoveByOwner(owner)
package keymap
