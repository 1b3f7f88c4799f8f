package modes

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msheldon32/tabular-sub000/predicate"
	"github.com/msheldon32/tabular-sub000/table"
)

func mustLeaf(op, value string) predicate.Leaf {
	o, ok := predicate.ParseOp(op)
	if !ok {
		panic("mustLeaf: unknown op " + op)
	}
	return predicate.Leaf{Op: o, Value: value}
}

func newTestEditor() *Editor {
	t := table.NewFromRows([][]string{
		{"name", "age"},
		{"alice", "30"},
		{"bob", "25"},
	})
	return New(t, 10, 10, nil)
}

func keyRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func keyNamed(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestInsertEditsCurrentCell(t *testing.T) {
	e := newTestEditor()
	now := time.Now()

	e.HandleKey(keyRune('i'), now)
	assert.Equal(t, Insert, e.Mode())

	e.HandleKey(keyRune('!'), now)
	e.HandleKey(keyNamed(tcell.KeyEnter), now)

	assert.Equal(t, Normal, e.Mode())
	got, _ := e.Table.Get(0, 0)
	assert.Equal(t, "name!", got)
	assert.True(t, e.History.CanUndo())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newTestEditor()
	now := time.Now()

	e.HandleKey(keyRune('A'), now)
	e.HandleKey(keyRune('x'), now)
	e.HandleKey(keyNamed(tcell.KeyEnter), now)
	got, _ := e.Table.Get(0, 0)
	assert.Equal(t, "x", got)

	e.HandleKey(keyRune('u'), now)
	got, _ = e.Table.Get(0, 0)
	assert.Equal(t, "name", got)

	e.HandleKey(keyNamed(tcell.KeyCtrlR), now)
	got, _ = e.Table.Get(0, 0)
	assert.Equal(t, "x", got)
}

func TestVisualRowYankAndPaste(t *testing.T) {
	e := newTestEditor()
	now := time.Now()

	e.View.MoveTo(1, 0)
	e.HandleKey(keyRune('V'), now)
	require.Equal(t, VisualRow, e.Mode())
	e.HandleKey(keyRune('y'), now)
	assert.Equal(t, Normal, e.Mode())

	e.View.MoveTo(2, 0)
	out := e.HandleKey(keyRune('p'), now)
	assert.Equal(t, "rows pasted", out.Status)

	got, _ := e.Table.Get(2, 0)
	assert.Equal(t, "alice", got)
}

func TestVisualDeleteRejectedWhenFiltered(t *testing.T) {
	e := newTestEditor()
	now := time.Now()
	e.Filter.PredicateFilter(e.Table, 1, mustLeaf(">", "26"), 0, true, "age > 26")

	e.HandleKey(keyRune('V'), now)
	out := e.HandleKey(keyRune('d'), now)
	assert.Contains(t, out.Status, "filtered")
}

func TestClearCellRecordsTransaction(t *testing.T) {
	e := newTestEditor()
	now := time.Now()
	e.View.MoveTo(1, 0)
	out := e.HandleKey(keyRune('x'), now)
	assert.Equal(t, "cell cleared", out.Status)
	got, _ := e.Table.Get(1, 0)
	assert.Equal(t, "", got)
}

func TestSearchFindsNextMatch(t *testing.T) {
	e := newTestEditor()
	now := time.Now()

	e.HandleKey(keyRune('/'), now)
	for _, r := range "bob" {
		e.HandleKey(keyRune(r), now)
	}
	out := e.HandleKey(keyNamed(tcell.KeyEnter), now)
	assert.Contains(t, out.Status, "matches")
	assert.Equal(t, 2, e.View.CursorRow)
	assert.Equal(t, 0, e.View.CursorCol)
}

func TestCommandModeParsesAndExecutes(t *testing.T) {
	e := newTestEditor()
	now := time.Now()

	e.HandleKey(keyRune(':'), now)
	for _, r := range "addcol" {
		e.HandleKey(keyRune(r), now)
	}
	out := e.HandleKey(keyNamed(tcell.KeyEnter), now)
	assert.Equal(t, "column added", out.Status)
	assert.Equal(t, 3, e.Table.NumCols())
}

func TestCommandModeQuit(t *testing.T) {
	e := newTestEditor()
	now := time.Now()

	e.HandleKey(keyRune(':'), now)
	for _, r := range "q!" {
		e.HandleKey(keyRune(r), now)
	}
	out := e.HandleKey(keyNamed(tcell.KeyEnter), now)
	assert.True(t, out.Quit)
	assert.True(t, out.Force)
}
