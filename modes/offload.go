package modes

import (
	"github.com/msheldon32/tabular-sub000/formula"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/msheldon32/tabular-sub000/txn"
)

// ApplyCalcUpdates records the result of a formula recalculation (run
// synchronously or via the background worker) as one undoable batch.
func (e *Editor) ApplyCalcUpdates(updates []formula.Update) {
	if len(updates) == 0 {
		return
	}
	items := make([]txn.Transaction, len(updates))
	for i, u := range updates {
		old, _ := e.Table.Get(u.Row, u.Col)
		items[i] = txn.SetCell{Row: u.Row, Col: u.Col, Old: old, New: u.Text}
	}
	e.record(txn.Batch{Items: items})
}

// ApplyRowPermutation records an already-computed row sort permutation
// (run synchronously or via the background worker) as one undoable
// transaction.
func (e *Editor) ApplyRowPermutation(perm table.Permutation) {
	e.record(txn.PermuteRows{Perm: perm})
	e.Table.MarkWidthsDirty()
}

// ApplyColPermutation is the column-axis analogue of ApplyRowPermutation.
func (e *Editor) ApplyColPermutation(perm table.Permutation) {
	e.record(txn.PermuteCols{Perm: perm})
	e.Table.MarkWidthsDirty()
}

// RowCount and ColCount expose table size for the app loop's
// background.ShouldOffload decisions without reaching into e.Table
// directly from outside the package boundary of editing operations.
func (e *Editor) RowCount() int { return e.Table.NumRows() }
func (e *Editor) ColCount() int { return e.Table.NumCols() }
