package mark

import (
	"testing"

	"github.com/dshills/modal/internal/engine/buffer"
)

func TestAddJumpDeduplicatesLine(t *testing.T) {
	g := NewGroup()
	buf := newBuf()
	g.AddJump(buf, 0, true)
	g.AddJump(buf, 5, true)
	g.AddJump(buf, 2, true)

	jumps := g.Jumps()
	if len(jumps) != 2 {
		t.Fatalf("len(Jumps()) = %d, want 2", len(jumps))
	}
	if jumps[0].Line != 1 || jumps[1].Line != 0 || jumps[1].Col != 2 {
		t.Errorf("Jumps() = %+v, want line 1 then line 0 col 2", jumps)
	}
}

func TestJumpCapacity(t *testing.T) {
	g := NewGroup()
	var sb []byte
	for i := 0; i < JumpCapacity+1; i++ {
		sb = append(sb, "x\n"...)
	}
	buf := buffer.NewMemory(string(sb), "/tmp/j.txt")
	for i := 0; i <= JumpCapacity; i++ {
		g.AddJump(buf, buf.LineStartOffset(i), true)
	}
	jumps := g.Jumps()
	if len(jumps) != JumpCapacity {
		t.Fatalf("len(Jumps()) = %d, want %d", len(jumps), JumpCapacity)
	}
	if jumps[0].Line != 1 {
		t.Errorf("oldest jump line = %d, want 1", jumps[0].Line)
	}
}

func TestGetJumpCursor(t *testing.T) {
	g := NewGroup()
	buf := newBuf()
	g.AddJump(buf, 0, true)
	g.AddJump(buf, 5, true)

	j, ok := g.GetJump(-1)
	if !ok || j.Line != 1 {
		t.Fatalf("GetJump(-1) = %+v, %v; want line 1", j, ok)
	}
	if g.JumpSpot() != 0 {
		t.Fatalf("JumpSpot() = %d, want 0", g.JumpSpot())
	}
	g.AddJump(buf, 13, false)

	j, ok = g.GetJump(-1)
	if !ok || j.Line != 0 {
		t.Errorf("GetJump(-1) = %+v, %v; want line 0", j, ok)
	}
	if _, ok := g.GetJump(-1); ok {
		t.Error("GetJump(-1) past the oldest entry should fail")
	}
	j, ok = g.GetJump(1)
	if !ok || j.Line != 1 {
		t.Errorf("GetJump(1) = %+v, %v; want line 1", j, ok)
	}
}

func TestSaveJumpLocationSetsQuoteMark(t *testing.T) {
	g := NewGroup()
	buf := newBuf()
	buf.MoveCaret(9)
	g.SaveJumpLocation(buf)
	m, ok := g.GetMark(buf, '`')
	if !ok || m.Line != 2 {
		t.Errorf("GetMark('`') = %+v, %v; want line 2", m, ok)
	}
	if g.JumpSpot() != -1 || len(g.Jumps()) != 1 {
		t.Errorf("jump list = %+v spot %d", g.Jumps(), g.JumpSpot())
	}
}

func TestDropLastJump(t *testing.T) {
	g := NewGroup()
	buf := newBuf()
	g.AddJump(buf, 0, true)
	g.AddJump(buf, 5, true)
	g.DropLastJump()
	if jumps := g.Jumps(); len(jumps) != 1 || jumps[0].Line != 0 {
		t.Errorf("Jumps() = %+v, want line 0 only", jumps)
	}
}
