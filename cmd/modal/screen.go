package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mode"
)

const tabStop = 8

// screen draws one editor on a tcell screen and feeds it keys.
type screen struct {
	s     tcell.Screen
	ready atomic.Bool
	done  atomic.Bool

	// top is the first buffer line shown.
	top int
}

func newScreen() (*screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &screen{s: s}, nil
}

func (sc *screen) init() error {
	if err := sc.s.Init(); err != nil {
		return err
	}
	sc.ready.Store(true)
	return nil
}

func (sc *screen) fini() {
	sc.ready.Store(false)
	sc.s.Fini()
}

// redraw wakes the event loop from another goroutine.
func (sc *screen) redraw() {
	if sc.ready.Load() {
		_ = sc.s.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (sc *screen) quit() {
	sc.done.Store(true)
	sc.redraw()
}

// scheduler runs mapping timeouts on real timers and redraws after each
// one, since a timeout may run keys while the loop is waiting for input.
func (sc *screen) scheduler() keymap.Scheduler {
	return redrawScheduler{sc: sc}
}

type redrawScheduler struct {
	sc *screen
}

func (r redrawScheduler) AfterFunc(d time.Duration, f func()) keymap.Timer {
	return keymap.RealScheduler.AfterFunc(d, func() {
		f()
		r.sc.redraw()
	})
}

func (sc *screen) run(ed *editor) {
	for !sc.done.Load() && !ed.quitting.Load() {
		sc.draw(ed)

		switch ev := sc.s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if k, ok := key.FromTcell(ev); ok {
				ed.handleKey(k)
			}
		case *tcell.EventResize:
			sc.s.Sync()
		}
	}
}

func (sc *screen) draw(ed *editor) {
	sc.s.Clear()
	width, height := sc.s.Size()
	if height < 2 || width < 1 {
		sc.s.Show()
		return
	}
	rows := height - 1

	buf := ed.handler.Buffer()
	caret := buf.Caret()
	cp := buf.OffsetToPoint(caret)
	switch {
	case cp.Line < sc.top:
		sc.top = cp.Line
	case cp.Line >= sc.top+rows:
		sc.top = cp.Line - rows + 1
	}

	selStart, selEnd, hasSel := buf.Selection()
	normal := tcell.StyleDefault
	selected := normal.Reverse(true)

	cx, cy := 0, cp.Line-sc.top
	for y := 0; y < rows; y++ {
		line := sc.top + y
		if line >= buf.LineCount() {
			sc.putString(0, y, "~", normal.Foreground(tcell.ColorBlue))
			continue
		}
		start := buf.LineStartOffset(line)
		text := buf.TextRange(start, buf.LineEndOffset(line))

		x := 0
		state := -1
		rest := text
		offset := start
		for len(rest) > 0 {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if offset == caret {
				cx = x
			}
			style := normal
			if hasSel && offset >= selStart && offset < selEnd {
				style = selected
			}
			if cluster == "\t" {
				w = tabStop - x%tabStop
				for i := 0; i < w && x+i < width; i++ {
					sc.s.SetContent(x+i, y, ' ', nil, style)
				}
			} else if x+w <= width {
				runes := []rune(cluster)
				sc.s.SetContent(x, y, runes[0], runes[1:], style)
			}
			x += w
			offset += len(cluster)
		}
		if caret >= offset && line == cp.Line {
			cx = x
		}
	}

	st := ed.handler.Status()
	sc.drawStatus(ed, st, cp, width, height-1)

	if st.CmdLine != "" {
		sc.s.ShowCursor(uniseg.StringWidth(st.CmdLine), height-1)
	} else {
		sc.s.ShowCursor(min(cx, width-1), cy)
	}
	sc.s.SetCursorStyle(cursorStyle(st.Mode))
	sc.s.Show()
}

func (sc *screen) drawStatus(ed *editor, st input.Status, cp buffer.Point, width, y int) {
	if st.CmdLine != "" {
		sc.putString(0, y, st.CmdLine, tcell.StyleDefault)
		return
	}

	left, isErr := ed.statusText(st)
	style := tcell.StyleDefault
	if isErr {
		style = style.Foreground(tcell.ColorRed)
	} else if left == st.ShowMode {
		style = style.Bold(true)
	}
	sc.putString(0, y, left, style)

	ruler := fmt.Sprintf("%-10s %d,%d", st.ShowCmd, cp.Line+1, cp.Column+1)
	if x := width - uniseg.StringWidth(ruler) - 1; x > uniseg.StringWidth(left) {
		sc.putString(x, y, ruler, tcell.StyleDefault)
	}
}

func (sc *screen) putString(x, y int, s string, style tcell.Style) {
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		runes := []rune(cluster)
		sc.s.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}

func cursorStyle(st mode.State) tcell.CursorStyle {
	switch {
	case st.Mode == mode.Insert:
		return tcell.CursorStyleSteadyBar
	case st.Mode == mode.Replace || st.Mode == mode.OpPending:
		return tcell.CursorStyleSteadyUnderline
	default:
		return tcell.CursorStyleSteadyBlock
	}
}
