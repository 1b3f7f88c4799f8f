package rowfilter_test

import (
	"testing"

	"github.com/msheldon32/tabular-sub000/numparse"
	"github.com/msheldon32/tabular-sub000/predicate"
	"github.com/msheldon32/tabular-sub000/rowfilter"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfilteredIsAllLive(t *testing.T) {
	m := rowfilter.NewManager()
	for r := 0; r < 5; r++ {
		assert.True(t, m.IsRowLive(r))
	}
}

func TestPredicateFilterKeepsHeaderAndMatchingRows(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"header"},
		{"95"},
		{"40"},
		{"92"},
	})
	m := rowfilter.NewManager()
	gt, _ := predicate.ParseOp(">")
	m.PredicateFilter(tb, 0, predicate.Leaf{Op: gt, Value: "50"}, numparse.ColumnNumeric, true, "Filtered (> 50)")

	assert.True(t, m.IsRowLive(0))
	assert.True(t, m.IsRowLive(1))
	assert.False(t, m.IsRowLive(2))
	assert.True(t, m.IsRowLive(3))
	assert.Equal(t, 3, m.ActiveRowCount())
}

func TestSnapshotRestore(t *testing.T) {
	m := rowfilter.NewManager()
	tb := table.NewFromRows([][]string{{"1"}, {"2"}, {"3"}})
	eq, _ := predicate.ParseOp("=")
	m.PredicateFilter(tb, 0, predicate.Leaf{Op: eq, Value: "2"}, numparse.ColumnNumeric, false, "x")
	snap := m.Snapshot()

	m.RemoveFilter()
	require.False(t, m.IsFiltered())

	m.Restore(snap)
	assert.True(t, m.IsFiltered())
	assert.True(t, m.IsRowLive(1))
	assert.False(t, m.IsRowLive(0))
}

func TestSuccessorPredecessorFiltered(t *testing.T) {
	m := rowfilter.NewManager()
	m.Restore(rowfilter.State{IsFiltered: true, ActiveRows: []int{1, 3, 5}})
	next, ok := m.GetSuccessor(1, 10)
	require.True(t, ok)
	assert.Equal(t, 3, next)

	prev, ok := m.GetPredecessor(5)
	require.True(t, ok)
	assert.Equal(t, 3, prev)

	_, ok = m.GetSuccessor(5, 10)
	assert.False(t, ok)
}
