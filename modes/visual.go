package modes

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/clipboard"
	"github.com/msheldon32/tabular-sub000/format"
	"github.com/msheldon32/tabular-sub000/formula"
	"github.com/msheldon32/tabular-sub000/input"
	"github.com/msheldon32/tabular-sub000/txn"
)

var visualSequences = []input.Sequence{
	{Name: "yank", Pattern: []input.Matcher{input.Rune('y')}},
	{Name: "delete", Pattern: []input.Matcher{input.Rune('d')}},
	{Name: "drag_down", Pattern: []input.Matcher{input.Rune('q')}},
	{Name: "drag_right", Pattern: []input.Matcher{input.Rune('Q')}},
	{Name: "format_default", Pattern: []input.Matcher{input.Rune('f'), input.Rune('f')}},
	{Name: "format_commas", Pattern: []input.Matcher{input.Rune('f'), input.Rune(',')}},
	{Name: "format_currency", Pattern: []input.Matcher{input.Rune('f'), input.Rune('$')}},
	{Name: "format_scientific", Pattern: []input.Matcher{input.Rune('f'), input.Rune('e')}},
	{Name: "format_percent", Pattern: []input.Matcher{input.Rune('f'), input.Rune('%')}},
}

func (e *Editor) handleVisual(event *tcell.EventKey, now time.Time) Outcome {
	if event.Key() == tcell.KeyEscape {
		e.mode = Normal
		e.visual = resetVisualBuffer()
		return Outcome{}
	}
	if e.visual == nil {
		e.visual = resetVisualBuffer()
	}
	res := e.visual.Process(event, now)

	switch res.Kind {
	case input.ResultPending:
		return Outcome{}
	case input.ResultAction:
		if res.Register != 0 {
			e.Clip.SelectRegister(res.Register)
		}
		out := e.dispatchVisualAction(res.Name)
		if res.Name == "yank" || res.Name == "delete" {
			e.mode = Normal
		}
		return out
	default:
		return e.applyNav(input.ClassifyNav(event), res.Count)
	}
}

// selectionSpan widens the raw selection bounds to full rows or full
// columns depending on the active visual sub-mode.
func (e *Editor) selectionSpan() (r1, r2, c1, c2 int) {
	r1, r2, c1, c2 = e.View.SelectionBounds()
	switch e.mode {
	case VisualRow:
		c1, c2 = 0, e.Table.NumCols()-1
	case VisualCol:
		r1, r2 = 0, e.Table.NumRows()-1
	}
	return
}

func (e *Editor) dispatchVisualAction(name string) Outcome {
	switch name {
	case "yank":
		return e.visualYank()
	case "delete":
		return e.visualDelete()
	case "drag_down":
		return e.dragDown()
	case "drag_right":
		return e.dragRight()
	case "format_default":
		return e.applyFormat(format.Default, "default")
	case "format_commas":
		return e.applyFormat(format.Commas, "commas")
	case "format_currency":
		return e.applyFormat(format.Currency, "currency")
	case "format_scientific":
		return e.applyFormat(format.Scientific, "scientific")
	case "format_percent":
		return e.applyFormat(format.Percentage, "percent")
	default:
		return Outcome{}
	}
}

func (e *Editor) visualYank() Outcome {
	r1, r2, c1, c2 := e.selectionSpan()
	data := e.filteredSpan(r1, r2, c1, c2)
	anchor := clipboard.AnchorCursor
	switch e.mode {
	case VisualRow:
		anchor = clipboard.AnchorRowStart
	case VisualCol:
		anchor = clipboard.AnchorColStart
	}
	e.Clip.Yank(clipboard.Content{Data: data, Anchor: anchor}, true)
	return statusOutcome("yanked")
}

// filteredSpan reads a rectangular span but, for row-shaped selections
// with an active filter, keeps only live rows (matching what the
// cursor visibly traversed while extending the selection).
func (e *Editor) filteredSpan(r1, r2, c1, c2 int) [][]string {
	if e.mode != VisualRow && e.mode != VisualCell || !e.Filter.IsFiltered() {
		return e.Table.GetSpan(r1, r2+1, c1, c2+1)
	}
	var out [][]string
	for r := r1; r <= r2; r++ {
		if !e.Filter.IsRowLive(r) {
			continue
		}
		out = append(out, e.Table.GetSpan(r, r+1, c1, c2+1)[0])
	}
	if len(out) == 0 {
		return e.Table.GetSpan(r1, r2+1, c1, c2+1)
	}
	return out
}

func (e *Editor) visualDelete() Outcome {
	r1, r2, c1, c2 := e.selectionSpan()

	switch e.mode {
	case VisualRow:
		if e.Filter.IsFiltered() {
			return statusOutcome("cannot delete rows in a filtered view")
		}
		data := e.Table.GetSpan(r1, r2+1, 0, e.Table.NumCols())
		e.Clip.Delete(clipboard.Content{Data: data, Anchor: clipboard.AnchorRowStart})
		e.record(txn.DeleteRowsBulk{Idx: r1, N: r2 - r1 + 1})
	case VisualCol:
		if e.Filter.IsFiltered() {
			return statusOutcome("cannot delete columns in a filtered view")
		}
		cols := make([][]string, 0, c2-c1+1)
		items := make([]txn.Transaction, 0, c2-c1+1)
		for c := c1; c <= c2; c++ {
			col := e.Table.GetSpan(0, e.Table.NumRows(), c, c+1)
			cols = append(cols, flattenCol(col))
			items = append(items, txn.DeleteCol{Idx: c1})
		}
		e.Clip.Delete(clipboard.Content{Data: transpose(cols), Anchor: clipboard.AnchorColStart})
		e.record(txn.Batch{Items: items})
	default:
		data := e.Table.GetSpan(r1, r2+1, c1, c2+1)
		blank := make([][]string, len(data))
		for i, row := range data {
			blank[i] = make([]string, len(row))
		}
		e.Clip.Delete(clipboard.Content{Data: data, Anchor: clipboard.AnchorCursor})
		e.record(txn.SetSpan{Row: r1, Col: c1, OldData: data, NewData: blank})
	}

	e.mode = Normal
	e.clampCursor()
	return statusOutcome("deleted")
}

func flattenCol(col [][]string) []string {
	out := make([]string, len(col))
	for i, r := range col {
		if len(r) > 0 {
			out[i] = r[0]
		}
	}
	return out
}

func transpose(cols [][]string) [][]string {
	if len(cols) == 0 {
		return nil
	}
	rows := make([][]string, len(cols[0]))
	for r := range rows {
		rows[r] = make([]string, len(cols))
		for c, col := range cols {
			if r < len(col) {
				rows[r][c] = col[r]
			}
		}
	}
	return rows
}

// dragDown fills the active selection downward from its top row: every
// other row in [r1,r2] is replaced by the top row's cells, each cell
// reference inside a formula translated by the row's offset from the
// top (§6.4). Not applicable to a column selection.
func (e *Editor) dragDown() Outcome {
	if e.mode == VisualCol {
		return statusOutcome("drag down does not apply to a column selection")
	}
	if e.Filter.IsFiltered() {
		return statusOutcome("drag is forbidden in a filtered view")
	}
	r1, r2, c1, c2 := e.selectionSpan()
	if r2 <= r1 {
		return statusOutcome("nothing to drag into")
	}
	old := e.Table.GetSpan(r1, r2+1, c1, c2+1)
	newData := make([][]string, len(old))
	newData[0] = append([]string(nil), old[0]...)
	for rowIdx := 1; rowIdx < len(old); rowIdx++ {
		newData[rowIdx] = make([]string, len(old[rowIdx]))
		for colIdx, cell := range old[0] {
			newData[rowIdx][colIdx] = formula.TranslateRefs(cell, rowIdx, 0)
		}
	}
	e.record(txn.SetSpan{Row: r1, Col: c1, OldData: old, NewData: newData})
	return statusOutcome("dragged down")
}

// dragRight fills the active selection rightward from its left column,
// the column analogue of dragDown. Not applicable to a row selection.
func (e *Editor) dragRight() Outcome {
	if e.mode == VisualRow {
		return statusOutcome("drag right does not apply to a row selection")
	}
	if e.Filter.IsFiltered() {
		return statusOutcome("drag is forbidden in a filtered view")
	}
	r1, r2, c1, c2 := e.selectionSpan()
	if c2 <= c1 {
		return statusOutcome("nothing to drag into")
	}
	old := e.Table.GetSpan(r1, r2+1, c1, c2+1)
	newData := make([][]string, len(old))
	for rowIdx, row := range old {
		newData[rowIdx] = make([]string, len(row))
		newData[rowIdx][0] = row[0]
		for colIdx := 1; colIdx < len(row); colIdx++ {
			newData[rowIdx][colIdx] = formula.TranslateRefs(row[0], 0, colIdx)
		}
	}
	e.record(txn.SetSpan{Row: r1, Col: c1, OldData: old, NewData: newData})
	return statusOutcome("dragged right")
}

// applyFormat expands the selection to full rows/cols per the active
// visual sub-mode, reformats every numeric cell in it, and leaves
// non-numeric cells untouched.
func (e *Editor) applyFormat(fn func(string) (string, bool), label string) Outcome {
	r1, r2, c1, c2 := e.selectionSpan()
	old := e.Table.GetSpan(r1, r2+1, c1, c2+1)
	newData := make([][]string, len(old))
	for i, row := range old {
		newData[i] = make([]string, len(row))
		for j, cell := range row {
			out, ok := fn(cell)
			if ok {
				newData[i][j] = out
			} else {
				newData[i][j] = cell
			}
		}
	}
	e.record(txn.SetSpan{Row: r1, Col: c1, OldData: old, NewData: newData})
	e.mode = Normal
	return statusOutcome(label + " format applied")
}
