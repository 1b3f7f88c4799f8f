// Package view implements the cursor/support-cursor/viewport state that
// sits between the mode handlers and the table store, including
// filter-aware motion and Excel-style jump navigation.
package view

import "github.com/msheldon32/tabular-sub000/rowfilter"

// CellStore is the minimal read surface the view needs to reason about
// occupied cells for jump navigation.
type CellStore interface {
	Get(row, col int) (string, bool)
	NumRows() int
	NumCols() int
}

// State holds the full view position: the mobile cursor, the visual-mode
// support cursor, and the current viewport.
type State struct {
	CursorRow, CursorCol   int
	SupportRow, SupportCol int
	ViewportRow, ViewportCol int
	ViewportHeight, ViewportWidth int
}

// New returns a view positioned at the origin with the given viewport
// dimensions.
func New(viewportHeight, viewportWidth int) *State {
	return &State{ViewportHeight: viewportHeight, ViewportWidth: viewportWidth}
}

// EnterVisual anchors the support cursor at the current cursor position.
func (v *State) EnterVisual() {
	v.SupportRow, v.SupportCol = v.CursorRow, v.CursorCol
}

// SelectionBounds returns the axis-aligned rectangle between the cursor
// and the support cursor, inclusive.
func (v *State) SelectionBounds() (r1, r2, c1, c2 int) {
	r1, r2 = orderPair(v.CursorRow, v.SupportRow)
	c1, c2 = orderPair(v.CursorCol, v.SupportCol)
	return
}

func orderPair(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}

// MoveTo sets the cursor directly, clamping to non-negative coordinates.
func (v *State) MoveTo(row, col int) {
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	v.CursorRow, v.CursorCol = row, col
}

// MoveDown advances the cursor count rows down, consulting rm for
// filter-aware motion (landing only on live rows).
func (v *State) MoveDown(rm *rowfilter.Manager, numRows, count int) {
	v.CursorRow = rm.JumpDown(v.CursorRow, count, numRows)
}

// MoveUp moves the cursor count rows up, consulting rm.
func (v *State) MoveUp(rm *rowfilter.Manager, count int) {
	v.CursorRow = rm.JumpUp(v.CursorRow, count)
}

// MoveLeft/MoveRight move the cursor horizontally by count columns,
// clamped to [0, numCols).
func (v *State) MoveLeft(count int) {
	v.CursorCol -= count
	if v.CursorCol < 0 {
		v.CursorCol = 0
	}
}

func (v *State) MoveRight(count, numCols int) {
	v.CursorCol += count
	if numCols > 0 && v.CursorCol >= numCols {
		v.CursorCol = numCols - 1
	}
}

// MoveToLastCol ($) moves to the last column.
func (v *State) MoveToLastCol(numCols int) {
	if numCols > 0 {
		v.CursorCol = numCols - 1
	} else {
		v.CursorCol = 0
	}
}

// MoveToFirstCol (0) moves to column 0.
func (v *State) MoveToFirstCol() { v.CursorCol = 0 }

// MoveToFirstOccupiedCol (^) moves to the first non-empty cell in the
// current row, or column 0 if the row is entirely empty.
func (v *State) MoveToFirstOccupiedCol(store CellStore) {
	for c := 0; c < store.NumCols(); c++ {
		text, _ := store.Get(v.CursorRow, c)
		if text != "" {
			v.CursorCol = c
			return
		}
	}
	v.CursorCol = 0
}

// MoveToLastRow (G) moves to the last row of the table (or the last
// live row, if filtered).
func (v *State) MoveToLastRow(rm *rowfilter.Manager, numRows int) {
	if numRows == 0 {
		v.CursorRow = 0
		return
	}
	last := numRows - 1
	if rm.IsRowLive(last) {
		v.CursorRow = last
		return
	}
	if prev, ok := rm.GetPredecessor(last + 1); ok {
		v.CursorRow = prev
	}
}

// JumpDirection is one of the four Excel-style Ctrl-arrow directions.
type JumpDirection int

const (
	JumpUp JumpDirection = iota
	JumpDown
	JumpLeft
	JumpRight
)

// Jump implements Ctrl-arrow navigation: if the current cell and its
// neighbour in that direction are both occupied, seek to the last
// occupied cell before an empty cell or the table edge; otherwise
// (starting on an empty cell, or at the end of a run) seek to the next
// occupied cell in that direction, clamping to the table edge if there
// is none.
func (v *State) Jump(store CellStore, dir JumpDirection) {
	row, col := v.CursorRow, v.CursorCol
	dr, dc := 0, 0
	switch dir {
	case JumpUp:
		dr = -1
	case JumpDown:
		dr = 1
	case JumpLeft:
		dc = -1
	case JumpRight:
		dc = 1
	}

	occupied := func(r, c int) bool {
		text, ok := store.Get(r, c)
		return ok && text != ""
	}
	inBounds := func(r, c int) bool {
		return r >= 0 && r < store.NumRows() && c >= 0 && c < store.NumCols()
	}

	curOccupied := occupied(row, col)
	r, c := row, col
	nr, nc := r+dr, c+dc

	if curOccupied && inBounds(nr, nc) && occupied(nr, nc) {
		// Already inside a contiguous run: ride it to its last cell.
		for inBounds(nr, nc) && occupied(nr, nc) {
			r, c = nr, nc
			nr, nc = r+dr, c+dc
		}
		v.CursorRow, v.CursorCol = r, c
		return
	}

	// Either starting from empty space, or about to cross a gap: seek
	// the next occupied cell in that direction.
	for inBounds(nr, nc) && !occupied(nr, nc) {
		nr, nc = nr+dr, nc+dc
	}
	if inBounds(nr, nc) {
		v.CursorRow, v.CursorCol = nr, nc
		return
	}

	// No occupied cell ahead: clamp to the table edge.
	for inBounds(r+dr, c+dc) {
		r, c = r+dr, c+dc
	}
	v.CursorRow, v.CursorCol = r, c
}

// ScrollToCursor adjusts the viewport so the cursor stays visible.
func (v *State) ScrollToCursor() {
	if v.CursorRow < v.ViewportRow {
		v.ViewportRow = v.CursorRow
	} else if v.ViewportHeight > 0 && v.CursorRow >= v.ViewportRow+v.ViewportHeight {
		v.ViewportRow = v.CursorRow - v.ViewportHeight + 1
	}
	if v.CursorCol < v.ViewportCol {
		v.ViewportCol = v.CursorCol
	} else if v.ViewportWidth > 0 && v.CursorCol >= v.ViewportCol+v.ViewportWidth {
		v.ViewportCol = v.CursorCol - v.ViewportWidth + 1
	}
	if v.ViewportRow < 0 {
		v.ViewportRow = 0
	}
	if v.ViewportCol < 0 {
		v.ViewportCol = 0
	}
}
