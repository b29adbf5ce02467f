// Package vim provides the command model and the incremental command
// builder for Vim-style key input.
//
// Commands are found by walking a key trie, one trie per mapping mode. Each
// leaf holds a Handler describing what the command does and which argument
// it needs:
//
//	[count]["x][count]{command}
//	[count]["x][count]{operator}[count]{motion|text-object}
//	[count]["x][count]{operator}{operator}     (dd, yy, cc)
//	{command}{char}                            (f, t, r, m, q, @)
//	{command}{ex string}<CR>                   (:, /, ?)
//
// # Builder
//
// A Builder accumulates keys for one editor. Digits before the operator and
// after it form two counts that are multiplied when the command is built:
// "2d3w" deletes six words. When a handler wants a motion argument the
// builder keeps walking, now in the operator-pending trie, and the finished
// sub-command becomes the Argument of the operator.
//
// The builder reports one of three states after each key:
//
//	StateNew    more keys are needed
//	StateReady  Build returns a complete Command
//	StateBad    the keys do not form a command; reset and report an error
//
// # Handlers
//
// Handlers come in four kinds: Motion, TextObject, Change and Operator.
// Execute dispatches on the kind, computing operator ranges from the motion
// argument before calling the operator.
//
// # Usage
//
//	trie := vim.NewTrie()
//	trie.Add(mode.SetOf(mode.MapNormal), key.MustParseSequence("x"), deleteChar)
//	b := vim.NewBuilder(trie)
//	b.Reset(mode.MapNormal)
//	if node := b.Child(ev); node != nil {
//	    ...
//	}
package vim
