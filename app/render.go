package app

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/msheldon32/tabular-sub000/modes"
	"github.com/msheldon32/tabular-sub000/table"
)

// rowNumWidth is the fixed width of the row-number gutter when the
// grid is shown.
const rowNumWidth = 5

var (
	styleDefault  = tcell.StyleDefault
	styleHeader   = tcell.StyleDefault.Bold(true)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleGutter   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// draw renders the visible grid, the cursor/selection, and the status
// or command/search line. Rendering is explicitly out of scope for the
// core this app wires (pane layout, themes, status-bar composition are
// external collaborators per the purpose this repository specifies
// against) -- this is the minimal real implementation that lets
// cmd/tabedit actually run.
func (e *Editor) draw() {
	e.screen.Clear()
	width, height := e.screen.Size()
	gridHeight := height - 1
	if gridHeight < 0 {
		gridHeight = 0
	}

	t := e.ed.Table
	view := e.ed.View
	widths := t.ColWidths()

	gutter := 0
	if e.showGrid {
		gutter = rowNumWidth
	}

	selR1, selR2, selC1, selC2 := -1, -1, -1, -1
	switch e.ed.Mode() {
	case modes.VisualCell, modes.VisualRow, modes.VisualCol:
		selR1, selR2, selC1, selC2 = e.ed.View.SelectionBounds()
	}

	for screenRow := 0; screenRow < gridHeight; screenRow++ {
		row := view.ViewportRow + screenRow
		if row >= t.NumRows() {
			break
		}
		if e.showGrid {
			drawText(e.screen, 0, screenRow, gutter-1, styleGutter, strconv.Itoa(row+1))
		}
		x := gutter
		for col := view.ViewportCol; col < t.NumCols() && x < width; col++ {
			w := colWidth(widths, col)
			text, _ := t.Get(row, col)

			style := styleDefault
			if row == 0 && e.ed.HasHeader {
				style = styleHeader
			}
			if selR1 >= 0 && row >= selR1 && row <= selR2 && col >= selC1 && col <= selC2 {
				style = styleSelected
			}
			if row == view.CursorRow && col == view.CursorCol {
				style = styleCursor
			}

			drawCell(e.screen, x, screenRow, w, style, text)
			x += w + 1
		}
	}

	e.drawBottomLine(width, height-1)
}

func colWidth(widths []int, col int) int {
	if col < len(widths) {
		return widths[col]
	}
	return 3
}

func drawCell(screen tcell.Screen, x, y, w int, style tcell.Style, text string) {
	runes := []rune(text)
	col := x
	used := 0
	for _, r := range runes {
		rw := runewidth.RuneWidth(r)
		if used+rw > w {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col += rw
		used += rw
	}
	for ; used < w; used++ {
		screen.SetContent(col, y, ' ', nil, style)
		col++
	}
	screen.SetContent(col, y, ' ', nil, tcell.StyleDefault)
}

func drawText(screen tcell.Screen, x, y, w int, style tcell.Style, text string) {
	col := x
	for _, r := range []rune(text) {
		if col >= x+w {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	for ; col < x+w; col++ {
		screen.SetContent(col, y, ' ', nil, style)
	}
}

func (e *Editor) drawBottomLine(width, y int) {
	switch e.ed.Mode() {
	case modes.Command:
		drawLine(e.screen, y, width, styleDefault, ":"+e.ed.CommandLineText())
		e.screen.ShowCursor(1+len([]rune(e.ed.CommandLineText())), y)
		return
	case modes.Search:
		drawLine(e.screen, y, width, styleDefault, "/"+e.ed.SearchQueryText())
		e.screen.ShowCursor(1+len([]rune(e.ed.SearchQueryText())), y)
		return
	case modes.Insert:
		text, cursorIdx := e.ed.InsertLineText()
		drawLine(e.screen, y, width, styleDefault, refLabel(e.ed.View.CursorRow, e.ed.View.CursorCol)+"> "+text)
		prefix := len([]rune(refLabel(e.ed.View.CursorRow, e.ed.View.CursorCol))) + 2
		e.screen.ShowCursor(prefix+cursorIdx, y)
		return
	}
	e.screen.HideCursor()
	drawLine(e.screen, y, width, styleStatus, e.statusLine())
}

func (e *Editor) statusLine() string {
	ref := refLabel(e.ed.View.CursorRow, e.ed.View.CursorCol)
	line := ref
	if e.file.Path != "" {
		line += "  " + e.file.Path
	}
	if e.dirty {
		line += " [+]"
	}
	if e.ed.Filter.IsFiltered() {
		line += "  " + e.ed.Filter.FilterString()
	}
	if e.status != "" {
		line += "  " + e.status
	}
	return line
}

func refLabel(row, col int) string {
	return table.ColumnLetters(col) + strconv.Itoa(row+1)
}

func drawLine(screen tcell.Screen, y, width int, style tcell.Style, text string) {
	drawText(screen, 0, y, width, style, text)
}
