package view_test

import (
	"testing"

	"github.com/msheldon32/tabular-sub000/rowfilter"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/msheldon32/tabular-sub000/view"
	"github.com/stretchr/testify/assert"
)

func TestSelectionBoundsOrdersCoordinates(t *testing.T) {
	v := view.New(10, 10)
	v.MoveTo(5, 5)
	v.EnterVisual()
	v.MoveTo(2, 8)

	r1, r2, c1, c2 := v.SelectionBounds()
	assert.Equal(t, 2, r1)
	assert.Equal(t, 5, r2)
	assert.Equal(t, 5, c1)
	assert.Equal(t, 8, c2)
}

func TestMoveDownSkipsFilteredRows(t *testing.T) {
	v := view.New(10, 10)
	rm := rowfilter.NewManager()
	rm.Restore(rowfilter.State{IsFiltered: true, ActiveRows: []int{0, 2, 4}})

	v.MoveDown(rm, 10, 1)
	assert.Equal(t, 2, v.CursorRow)
	v.MoveDown(rm, 10, 1)
	assert.Equal(t, 4, v.CursorRow)
}

func TestJumpToNextOccupiedCell(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"a", "", "", "d"},
	})
	v := view.New(10, 10)
	v.MoveTo(0, 0)
	v.Jump(tb, view.JumpRight)
	assert.Equal(t, 3, v.CursorCol)
}

func TestScrollToCursorKeepsCursorVisible(t *testing.T) {
	v := view.New(5, 5)
	v.MoveTo(20, 0)
	v.ScrollToCursor()
	assert.LessOrEqual(t, v.ViewportRow, v.CursorRow)
	assert.Less(t, v.CursorRow, v.ViewportRow+v.ViewportHeight)
}
