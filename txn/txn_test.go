package txn_test

import (
	"testing"

	"github.com/msheldon32/tabular-sub000/rowfilter"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/msheldon32/tabular-sub000/txn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyState() rowfilter.State { return rowfilter.State{} }

func activeState() rowfilter.State {
	return rowfilter.State{IsFiltered: true, ActiveRows: []int{0, 2}, FilterString: "x"}
}

func flatten(tb *table.Table) [][]string {
	return tb.GetRowsCloned(0, tb.NumRows())
}

func TestSetCellUndoRedo(t *testing.T) {
	tb := table.NewFromRows([][]string{{"1", "2"}})
	h := txn.NewHistory()
	h.Record(tb, txn.SetCell{Row: 0, Col: 0, Old: "1", New: "99"})
	v, _ := tb.Get(0, 0)
	assert.Equal(t, "99", v)

	_, ok := h.Undo(tb)
	require.True(t, ok)
	v, _ = tb.Get(0, 0)
	assert.Equal(t, "1", v)

	_, ok = h.Redo(tb)
	require.True(t, ok)
	v, _ = tb.Get(0, 0)
	assert.Equal(t, "99", v)
}

func TestInsertDeleteRowRoundTrip(t *testing.T) {
	tb := table.NewFromRows([][]string{{"a"}, {"b"}, {"c"}})
	before := flatten(tb)
	h := txn.NewHistory()
	h.Record(tb, txn.InsertRowWithData{Idx: 1, Data: []string{"x"}})
	assert.Equal(t, 4, tb.NumRows())

	h.Undo(tb)
	assert.Equal(t, before, flatten(tb))
}

func TestBatchAppliesAndInvertsAsOneUnit(t *testing.T) {
	tb := table.NewFromRows([][]string{{"1", "2"}})
	before := flatten(tb)
	h := txn.NewHistory()
	h.Record(tb, txn.Batch{Items: []txn.Transaction{
		txn.SetCell{Row: 0, Col: 0, Old: "1", New: "10"},
		txn.SetCell{Row: 0, Col: 1, Old: "2", New: "20"},
	}})
	v0, _ := tb.Get(0, 0)
	v1, _ := tb.Get(0, 1)
	assert.Equal(t, "10", v0)
	assert.Equal(t, "20", v1)

	h.Undo(tb)
	assert.Equal(t, before, flatten(tb))
}

func TestPermuteRowsRoundTrip(t *testing.T) {
	tb := table.NewFromRows([][]string{{"a"}, {"b"}, {"c"}})
	before := flatten(tb)
	h := txn.NewHistory()
	perm := table.Permutation{2, 0, 1}
	h.Record(tb, txn.PermuteRows{Perm: perm})
	assert.NotEqual(t, before, flatten(tb))

	h.Undo(tb)
	assert.Equal(t, before, flatten(tb))
}

func TestDeleteOnlyRowInverseRestoresData(t *testing.T) {
	tb := table.NewFromRows([][]string{{"keep-me"}})
	h := txn.NewHistory()
	h.Record(tb, txn.DeleteRow{Idx: 0})
	v, _ := tb.Get(0, 0)
	assert.Equal(t, "", v)

	h.Undo(tb)
	v, _ = tb.Get(0, 0)
	assert.Equal(t, "keep-me", v)
}

func TestEstimatedSizeAndIsLarge(t *testing.T) {
	small := txn.SetCell{Row: 0, Col: 0, Old: "a", New: "b"}
	assert.False(t, txn.IsLarge(small))

	large := txn.InsertRowsBulk{Idx: 0, N: 60000}
	assert.True(t, txn.IsLarge(large))
}

func TestFilterStateOfSetFilter(t *testing.T) {
	sf := txn.SetFilter{Old: emptyState(), New: activeState()}
	state, ok := txn.FilterStateOf(sf)
	require.True(t, ok)
	assert.True(t, state.IsFiltered)

	_, ok = txn.FilterStateOf(txn.SetCell{})
	assert.False(t, ok)
}
