package modes

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/clipboard"
	"github.com/msheldon32/tabular-sub000/input"
	"github.com/msheldon32/tabular-sub000/txn"
	"github.com/msheldon32/tabular-sub000/view"
)

var normalSequences = []input.Sequence{
	{Name: "insert_end", Pattern: []input.Matcher{input.Rune('i')}},
	{Name: "insert_start", Pattern: []input.Matcher{input.Rune('I')}},
	{Name: "append_end", Pattern: []input.Matcher{input.Rune('a')}},
	{Name: "clear_edit", Pattern: []input.Matcher{input.Rune('A')}},
	{Name: "row_below", Pattern: []input.Matcher{input.Rune('o')}},
	{Name: "row_above", Pattern: []input.Matcher{input.Rune('O')}},
	{Name: "paste", Pattern: []input.Matcher{input.Rune('p')}},
	{Name: "clear_cell", Pattern: []input.Matcher{input.Rune('x')}},
	{Name: "delete_col", Pattern: []input.Matcher{input.Rune('X')}},
	{Name: "undo", Pattern: []input.Matcher{input.Rune('u')}},
	{Name: "redo", Pattern: []input.Matcher{input.Key(tcell.KeyCtrlR)}},
	{Name: "visual_cell", Pattern: []input.Matcher{input.Rune('v')}},
	{Name: "visual_row", Pattern: []input.Matcher{input.Rune('V')}},
	{Name: "visual_col", Pattern: []input.Matcher{input.Key(tcell.KeyCtrlV)}},
	{Name: "command", Pattern: []input.Matcher{input.Rune(':')}},
	{Name: "search", Pattern: []input.Matcher{input.Rune('/')}},
	{Name: "search_next", Pattern: []input.Matcher{input.Rune('n')}},
	{Name: "search_prev", Pattern: []input.Matcher{input.Rune('N')}},
	{Name: "cancel", Pattern: []input.Matcher{input.Key(tcell.KeyCtrlC)}},
}

func (e *Editor) handleNormal(event *tcell.EventKey, now time.Time) Outcome {
	if e.normal == nil {
		e.normal = input.NewBuffer(normalSequences)
	}
	res := e.normal.Process(event, now)

	switch res.Kind {
	case input.ResultPending:
		return Outcome{}
	case input.ResultAction:
		if res.Register != 0 {
			e.Clip.SelectRegister(res.Register)
		}
		return e.dispatchNormalAction(res.Name, res.Count)
	default: // Fallthrough: try navigation
		return e.applyNav(input.ClassifyNav(event), res.Count)
	}
}

func (e *Editor) dispatchNormalAction(name string, count int) Outcome {
	switch name {
	case "insert_end":
		return e.startEdit(e.currentCellText(), len([]rune(e.currentCellText())))
	case "insert_start":
		return e.startEdit(e.currentCellText(), 0)
	case "append_end":
		text := e.currentCellText()
		return e.startEdit(text, len([]rune(text)))
	case "clear_edit":
		return e.startEdit("", 0)
	case "row_below":
		return e.insertRow(e.View.CursorRow + 1)
	case "row_above":
		return e.insertRow(e.View.CursorRow)
	case "paste":
		return e.pasteAtCursor()
	case "clear_cell":
		old := e.currentCellText()
		if old == "" {
			return Outcome{}
		}
		e.record(txn.SetCell{Row: e.View.CursorRow, Col: e.View.CursorCol, Old: old, New: ""})
		return statusOutcome("cell cleared")
	case "delete_col":
		return e.deleteCol(e.View.CursorCol)
	case "undo":
		if applied, ok := e.History.Undo(e.Table); ok {
			if s, ok := txn.FilterStateOf(applied); ok {
				e.Filter.Restore(s)
			}
			e.clampCursor()
			return statusOutcome("undo")
		}
		return statusOutcome("nothing to undo")
	case "redo":
		if applied, ok := e.History.Redo(e.Table); ok {
			if s, ok := txn.FilterStateOf(applied); ok {
				e.Filter.Restore(s)
			}
			e.clampCursor()
			return statusOutcome("redo")
		}
		return statusOutcome("nothing to redo")
	case "visual_cell":
		e.mode = VisualCell
		e.View.EnterVisual()
		e.visual = resetVisualBuffer()
		return Outcome{}
	case "visual_row":
		e.mode = VisualRow
		e.View.EnterVisual()
		e.visual = resetVisualBuffer()
		return Outcome{}
	case "visual_col":
		e.mode = VisualCol
		e.View.EnterVisual()
		e.visual = resetVisualBuffer()
		return Outcome{}
	case "command":
		e.mode = Command
		e.cmdline = nil
		return Outcome{}
	case "search":
		e.mode = Search
		e.search = searchState{}
		return Outcome{}
	case "search_next":
		return e.gotoMatch(1)
	case "search_prev":
		return e.gotoMatch(-1)
	case "cancel":
		return Outcome{}
	default:
		return Outcome{}
	}
}

func (e *Editor) currentCellText() string {
	text, _ := e.Table.Get(e.View.CursorRow, e.View.CursorCol)
	return text
}

func (e *Editor) applyNav(nav input.NavKey, count int) Outcome {
	numRows, numCols := e.Table.NumRows(), e.Table.NumCols()
	switch nav {
	case input.NavLeft:
		e.View.MoveLeft(count)
	case input.NavRight:
		e.View.MoveRight(count, numCols)
	case input.NavDown:
		e.View.MoveDown(e.Filter, numRows, count)
	case input.NavUp:
		e.View.MoveUp(e.Filter, count)
	case input.NavLineStart:
		e.View.MoveToFirstCol()
	case input.NavFirstOccupied:
		e.View.MoveToFirstOccupiedCol(e.Table)
	case input.NavLineEnd:
		e.View.MoveToLastCol(numCols)
	case input.NavLastRow:
		e.View.MoveToLastRow(e.Filter, numRows)
	case input.NavHalfPageDown:
		e.View.MoveDown(e.Filter, numRows, e.View.ViewportHeight/2+1)
	case input.NavHalfPageUp:
		e.View.MoveUp(e.Filter, e.View.ViewportHeight/2+1)
	case input.NavPageDown:
		e.View.MoveDown(e.Filter, numRows, e.View.ViewportHeight)
	case input.NavPageUp:
		e.View.MoveUp(e.Filter, e.View.ViewportHeight)
	case input.NavJumpLeft:
		e.View.Jump(e.Table, view.JumpLeft)
	case input.NavJumpRight:
		e.View.Jump(e.Table, view.JumpRight)
	case input.NavJumpUp:
		e.View.Jump(e.Table, view.JumpUp)
	case input.NavJumpDown:
		e.View.Jump(e.Table, view.JumpDown)
	default:
		return Outcome{}
	}
	e.View.ScrollToCursor()
	return Outcome{}
}

func (e *Editor) startEdit(initial string, cursorIdx int) Outcome {
	e.mode = Insert
	e.insert = insertState{
		original:  initial,
		buffer:    []rune(initial),
		cursorIdx: cursorIdx,
	}
	return Outcome{}
}

func (e *Editor) insertRow(at int) Outcome {
	if e.Filter.IsFiltered() {
		return statusOutcome("cannot insert rows in a filtered view")
	}
	e.record(txn.InsertRow{Idx: at})
	e.View.CursorRow = at
	e.clampCursor()
	return statusOutcome("row inserted")
}

func (e *Editor) deleteCol(at int) Outcome {
	if e.Filter.IsFiltered() {
		return statusOutcome("cannot delete columns in a filtered view")
	}
	if e.Table.NumCols() <= 1 {
		return statusOutcome("cannot delete the only column")
	}
	e.record(txn.DeleteCol{Idx: at})
	e.clampCursor()
	return statusOutcome("column deleted")
}

func (e *Editor) pasteAtCursor() Outcome {
	content, err := e.Clip.Get()
	if err != nil {
		return statusOutcome(err.Error())
	}
	if len(content.Data) == 0 {
		return statusOutcome("nothing to paste")
	}

	row, col := e.View.CursorRow, e.View.CursorCol
	switch content.Anchor {
	case clipboard.AnchorRowStart:
		col = 0
	case clipboard.AnchorColStart:
		row = 0
	}

	rows := len(content.Data)
	cols := 0
	if rows > 0 {
		cols = len(content.Data[0])
	}
	old := e.Table.GetSpan(row, row+rows, col, col+cols)
	e.record(txn.SetSpan{Row: row, Col: col, OldData: old, NewData: content.Data})

	switch content.Anchor {
	case clipboard.AnchorRowStart:
		return statusOutcome("rows pasted")
	case clipboard.AnchorColStart:
		return statusOutcome("columns pasted")
	default:
		return statusOutcome("span pasted")
	}
}

func resetVisualBuffer() *input.Buffer {
	return input.NewBuffer(visualSequences)
}
