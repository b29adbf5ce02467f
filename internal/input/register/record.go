package register

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/logger"
)

// StartRecording begins recording keys into r.
func (g *Group) StartRecording(r rune) bool {
	if !IsRecordable(r) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recordReg = r
	g.recordKeys = []key.Event{}
	logger.Debug("recording started", "register", string(r))
	return true
}

// IsRecording reports whether a macro is being recorded.
func (g *Group) IsRecording() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recordReg != 0
}

// RecordingRegister returns the register being recorded into, or 0.
func (g *Group) RecordingRegister() rune {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recordReg
}

// RecordKey appends e to the macro being recorded.
func (g *Group) RecordKey(e key.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recordReg != 0 {
		g.recordKeys = append(g.recordKeys, e)
	}
}

// RecordText appends typed text to the macro being recorded.
func (g *Group) RecordText(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recordReg != 0 {
		g.recordKeys = append(g.recordKeys, key.FromString(text)...)
	}
}

// FinishRecording stores the recorded keys. An uppercase register appends.
func (g *Group) FinishRecording() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recordReg == 0 {
		return
	}
	keys := key.Clone(g.recordKeys)
	name := toLower(g.recordReg)
	if old, ok := g.regs[name]; ok && isUpper(g.recordReg) {
		old.appendKeys(keys)
	} else {
		g.regs[name] = &Register{Name: name, Type: CharacterWise, Text: keysText(keys), Keys: keys}
	}
	logger.Debug("recording finished", "register", string(g.recordReg), "keys", len(keys))
	g.recordReg = 0
	g.recordKeys = nil
}
