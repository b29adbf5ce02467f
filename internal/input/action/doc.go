// Package action provides the built-in commands of the modal engine:
// motions, text objects, operators and the other Normal, Visual, Insert
// and command-line commands.
//
// Every command is a *vim.Handler. Register adds them to a key trie:
//
//	trie := vim.NewTrie()
//	if err := action.Register(trie); err != nil {
//	    return err
//	}
//
// Handler names are stable; dot-repeat, logging and the register routing
// of deletes (see register.NumberedDeleteMotions) refer to them.
//
// Motions move over the text of the whole buffer as returned by
// buffer.Reader.Text, in byte offsets. Operators receive the range the
// motion covers from vim.OperatorRange and do the edit through the
// adapter, keeping registers and marks up to date.
package action
