package modes

import (
	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/txn"
)

// insertState is the in-progress edit buffer for the current cell,
// addressed by rune index (not byte index) so editing multi-byte text
// keeps the cursor aligned with what's on screen.
type insertState struct {
	original  string
	buffer    []rune
	cursorIdx int
}

func (e *Editor) handleInsert(event *tcell.EventKey) Outcome {
	switch event.Key() {
	case tcell.KeyEscape:
		e.mode = Normal
		return Outcome{}
	case tcell.KeyEnter:
		return e.commitInsert()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.insert.cursorIdx > 0 {
			b := e.insert.buffer
			i := e.insert.cursorIdx
			e.insert.buffer = append(b[:i-1], b[i:]...)
			e.insert.cursorIdx--
		}
		return Outcome{}
	case tcell.KeyDelete:
		if e.insert.cursorIdx < len(e.insert.buffer) {
			b := e.insert.buffer
			i := e.insert.cursorIdx
			e.insert.buffer = append(b[:i], b[i+1:]...)
		}
		return Outcome{}
	case tcell.KeyLeft:
		if event.Modifiers()&tcell.ModCtrl != 0 {
			e.insert.cursorIdx = wordLeft(e.insert.buffer, e.insert.cursorIdx)
		} else if e.insert.cursorIdx > 0 {
			e.insert.cursorIdx--
		}
		return Outcome{}
	case tcell.KeyRight:
		if event.Modifiers()&tcell.ModCtrl != 0 {
			e.insert.cursorIdx = wordRight(e.insert.buffer, e.insert.cursorIdx)
		} else if e.insert.cursorIdx < len(e.insert.buffer) {
			e.insert.cursorIdx++
		}
		return Outcome{}
	case tcell.KeyRune:
		b := e.insert.buffer
		i := e.insert.cursorIdx
		grown := make([]rune, 0, len(b)+1)
		grown = append(grown, b[:i]...)
		grown = append(grown, event.Rune())
		grown = append(grown, b[i:]...)
		e.insert.buffer = grown
		e.insert.cursorIdx++
		return Outcome{}
	default:
		return Outcome{}
	}
}

func (e *Editor) commitInsert() Outcome {
	newText := string(e.insert.buffer)
	old := e.insert.original
	e.mode = Normal
	if newText == old {
		return Outcome{}
	}
	e.record(txn.SetCell{Row: e.View.CursorRow, Col: e.View.CursorCol, Old: old, New: newText})
	return Outcome{}
}

func wordLeft(buf []rune, idx int) int {
	i := idx
	for i > 0 && isSpace(buf[i-1]) {
		i--
	}
	for i > 0 && !isSpace(buf[i-1]) {
		i--
	}
	return i
}

func wordRight(buf []rune, idx int) int {
	i := idx
	n := len(buf)
	for i < n && !isSpace(buf[i]) {
		i++
	}
	for i < n && isSpace(buf[i]) {
		i++
	}
	return i
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }
