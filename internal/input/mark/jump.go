package mark

import "github.com/dshills/modal/internal/engine/buffer"

// JumpCapacity bounds the jump list.
const JumpCapacity = 100

// Jump is one entry of the jump list.
type Jump struct {
	Line int
	Col  int
	Path string
}

// AddJump appends the position of offset in buf. An existing entry on the
// same line of the same file is moved to the end. reset puts the cursor back
// past the newest entry.
func (g *Group) AddJump(buf buffer.Reader, offset int, reset bool) {
	path := buf.Path()
	if path == "" {
		return
	}
	p := buf.OffsetToPoint(offset)
	j := Jump{Line: p.Line, Col: p.Column, Path: path}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, old := range g.jumps {
		if old.Path == j.Path && old.Line == j.Line {
			g.jumps = append(g.jumps[:i], g.jumps[i+1:]...)
			break
		}
	}
	g.jumps = append(g.jumps, j)
	if reset {
		g.jumpSpot = -1
	} else {
		g.jumpSpot++
	}
	if len(g.jumps) > JumpCapacity {
		g.jumps = g.jumps[1:]
	}
}

// SaveJumpLocation records the caret before a jump and sets the ' mark.
func (g *Group) SaveJumpLocation(buf buffer.Adapter) {
	g.AddJump(buf, buf.Caret(), true)
	g.SetMark(buf, LastJump, buf.Caret())
}

// GetJump moves the cursor by count (negative for older) and returns the
// jump there.
func (g *Group) GetJump(count int) (Jump, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	index := len(g.jumps) - 1 - (g.jumpSpot - count)
	if index < 0 || index >= len(g.jumps) {
		return Jump{}, false
	}
	g.jumpSpot -= count
	return g.jumps[index], true
}

// Jumps returns a copy of the jump list, oldest first.
func (g *Group) Jumps() []Jump {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Jump, len(g.jumps))
	copy(out, g.jumps)
	return out
}

// JumpSpot returns the jump cursor. -1 means past the newest entry.
func (g *Group) JumpSpot() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jumpSpot
}

// DropLastJump removes the newest entry.
func (g *Group) DropLastJump() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.jumps) > 0 {
		g.jumps = g.jumps[:len(g.jumps)-1]
	}
}
