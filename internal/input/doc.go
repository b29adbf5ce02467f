// Package input turns typed keys into editing commands.
//
// An Engine holds everything editors share: the key trie, the mapping
// registry, registers, marks, ex commands and the options. Each editor
// gets a Handler that owns its mode stack, command builder and mapping
// state.
//
// # Key Flow
//
// A key first goes through mapping resolution. Keys that start a longer
// mapping are held until the mapping is complete, a key breaks it, or
// the 'timeoutlen' timer fires. A resolved mapping replays its keys,
// evaluates an expression, or calls an extension handler. Keys that are
// not mapped drive the command builder over the key trie; a complete
// command is built and executed against the editor's buffer.
//
// # Modal Editing
//
//   - Normal mode: commands, operators and motions
//   - Insert and Replace mode: text entry with digraphs and literals
//   - Visual and Select mode: character, line or block selections
//   - Command-line mode: ex commands typed after ':' or a search
//   - Operator-pending mode: the motion after d, c, y and friends
//
// # Usage
//
//	eng := input.NewEngine(input.DefaultConfig())
//	h := eng.NewEditor(buffer.NewMemory("hello", ""))
//
//	for _, e := range key.FromString("dw") {
//	    h.HandleKey(e)
//	}
//	fmt.Println(h.Status().ShowMode)
package input
