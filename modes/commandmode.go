package modes

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/background"
	"github.com/msheldon32/tabular-sub000/command"
	"github.com/msheldon32/tabular-sub000/format"
	"github.com/msheldon32/tabular-sub000/numparse"
	"github.com/msheldon32/tabular-sub000/predicate"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/msheldon32/tabular-sub000/txn"
)

func (e *Editor) handleCommand(event *tcell.EventKey) Outcome {
	switch event.Key() {
	case tcell.KeyEscape:
		e.mode = Normal
		e.cmdline = nil
		return Outcome{}
	case tcell.KeyEnter:
		text := string(e.cmdline)
		e.mode = Normal
		e.cmdline = nil
		return e.ExecuteCommand(command.Parse(text))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(e.cmdline); n > 0 {
			e.cmdline = e.cmdline[:n-1]
		}
		return Outcome{}
	case tcell.KeyRune:
		e.cmdline = append(e.cmdline, event.Rune())
		return Outcome{}
	default:
		return Outcome{}
	}
}

// ExecuteCommand runs a parsed `:`-command. Table-mutating commands
// (sort, filter, add/delete column, substitute) are applied directly
// through the undo history, except a sort of an axis large enough to
// offload, which comes back as Outcome.RequestSort. :prec only sets
// Precision and reports ApplyPrecision; ApplyDisplayPrecision then
// rewrites the cells with Table.Set, outside the undo history. Commands
// that reach outside table
// editing (write, quit, fork, theme, system paste) are reported back on
// Outcome for the app loop, which owns file I/O, the process lifecycle,
// and terminal theming.
func (e *Editor) ExecuteCommand(cmd command.Command) Outcome {
	switch c := cmd.(type) {
	case command.Write:
		return Outcome{Write: true}
	case command.Quit:
		return Outcome{Quit: true}
	case command.ForceQuit:
		return Outcome{Quit: true, Force: true}
	case command.WriteQuit:
		return Outcome{WriteThen: true}
	case command.Fork:
		return Outcome{Fork: true}
	case command.Clip:
		return Outcome{Clip: true}
	case command.SysPaste:
		return Outcome{SysPaste: true}
	case command.ThemeList:
		return Outcome{ListThemes: true}
	case command.PluginList:
		return Outcome{ListPlugin: true}
	case command.Theme:
		return Outcome{ThemeName: c.Name}
	case command.Calc:
		return Outcome{RequestCalc: true}
	case command.Grid:
		return Outcome{ToggleGrid: true}

	case command.AddColumn:
		e.record(txn.InsertCol{Idx: e.Table.NumCols()})
		return statusOutcome("column added")
	case command.DeleteColumn:
		return e.deleteCol(e.Table.NumCols() - 1)
	case command.ToggleHeader:
		e.HasHeader = !e.HasHeader
		return statusOutcome("header toggled")

	case command.Sort:
		return e.sortByCol(e.View.CursorCol, table.Ascending)
	case command.SortDesc:
		return e.sortByCol(e.View.CursorCol, table.Descending)
	case command.SortRow:
		return e.sortByRow(e.View.CursorRow, table.Ascending)
	case command.SortRowDesc:
		return e.sortByRow(e.View.CursorRow, table.Descending)

	case command.NoFilter:
		old := e.Filter.Snapshot()
		e.Filter.RemoveFilter()
		e.record(txn.SetFilter{Old: old, New: e.Filter.Snapshot()})
		return statusOutcome("filter cleared")
	case command.Filter:
		return e.applyFilter(c)

	case command.Precision:
		e.Precision = c.N
		if c.N == nil {
			return Outcome{Status: "precision: auto", ApplyPrecision: true}
		}
		return Outcome{Status: "precision: " + strconv.Itoa(*c.N), ApplyPrecision: true}

	case command.NavigateRow:
		e.View.MoveTo(c.Row, e.View.CursorCol)
		e.View.ScrollToCursor()
		return Outcome{}
	case command.NavigateCell:
		e.View.MoveTo(c.Ref.Row, c.Ref.Col)
		e.View.ScrollToCursor()
		return Outcome{}

	case command.ReplaceCmd:
		return e.applyReplace(c)

	case command.Custom:
		return Outcome{Custom: &c}
	case command.Unknown:
		return statusOutcome("unknown command: " + c.Text)
	default:
		return Outcome{}
	}
}

func (e *Editor) sortByCol(col int, dir table.SortDirection) Outcome {
	if e.Filter.IsFiltered() {
		return statusOutcome("cannot sort a filtered view")
	}
	if background.ShouldOffload(e.Table.NumRows()) {
		return Outcome{RequestSort: &SortRequest{Index: col, Dir: dir, SkipHeader: e.HasHeader}}
	}
	perm, ok := e.Table.GetSortPermutation(col, dir, e.HasHeader)
	if !ok {
		return statusOutcome("already sorted")
	}
	e.record(txn.PermuteRows{Perm: perm})
	e.Table.MarkWidthsDirty()
	return statusOutcome("sorted")
}

func (e *Editor) sortByRow(row int, dir table.SortDirection) Outcome {
	if background.ShouldOffload(e.Table.NumCols()) {
		return Outcome{RequestSort: &SortRequest{ByRow: true, Index: row, Dir: dir, SkipHeader: e.HasHeader}}
	}
	perm, ok := e.Table.GetColSortPermutation(row, dir, e.HasHeader)
	if !ok {
		return statusOutcome("already sorted")
	}
	e.record(txn.PermuteCols{Perm: perm})
	e.Table.MarkWidthsDirty()
	return statusOutcome("sorted")
}

func (e *Editor) applyFilter(f command.Filter) Outcome {
	col := e.View.CursorCol
	sample := e.Table.GetColsCloned(col, 1)
	cells := make([]string, len(sample))
	for i, r := range sample {
		if len(r) > 0 {
			cells[i] = r[0]
		}
	}
	colType := numparse.ClassifyColumn(cells)

	old := e.Filter.Snapshot()
	label := table.ColumnLetters(col) + " " + predicate.String(f.Predicate)
	e.Filter.PredicateFilter(e.Table, col, f.Predicate, colType, e.HasHeader, label)
	e.record(txn.SetFilter{Old: old, New: e.Filter.Snapshot()})
	e.clampCursor()
	return statusOutcome("filtered: " + e.Filter.FilterString())
}

func (e *Editor) applyReplace(c command.ReplaceCmd) Outcome {
	var r1, r2, c1, c2 int
	if c.Scope == command.ScopeAll {
		r1, r2 = 0, e.Table.NumRows()-1
		c1, c2 = 0, e.Table.NumCols()-1
	} else {
		r1, r2, c1, c2 = e.View.SelectionBounds()
	}

	old := e.Table.GetSpan(r1, r2+1, c1, c2+1)
	newData := make([][]string, len(old))
	changed := false
	for i, row := range old {
		newData[i] = make([]string, len(row))
		for j, cell := range row {
			replaced := doReplace(cell, c.Pattern, c.Replacement, c.Global)
			newData[i][j] = replaced
			if replaced != cell {
				changed = true
			}
		}
	}
	if !changed {
		return statusOutcome("no matches")
	}
	e.record(txn.SetSpan{Row: r1, Col: c1, OldData: old, NewData: newData})
	return statusOutcome("substituted")
}

func doReplace(s, pattern, replacement string, global bool) string {
	if pattern == "" {
		return s
	}
	if global {
		return strings.ReplaceAll(s, pattern, replacement)
	}
	return strings.Replace(s, pattern, replacement, 1)
}

// ApplyDisplayPrecision re-renders every numeric cell at the configured
// fixed precision; exposed for the app loop to call after a :prec
// command, since it touches the whole table and the app decides whether
// that's large enough to offload.
func (e *Editor) ApplyDisplayPrecision() {
	if e.Precision == nil {
		return
	}
	for r := 0; r < e.Table.NumRows(); r++ {
		for c := 0; c < e.Table.NumCols(); c++ {
			text, _ := e.Table.Get(r, c)
			e.Table.Set(r, c, format.Display(text, e.Precision))
		}
	}
}
