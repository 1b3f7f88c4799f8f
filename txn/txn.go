// Package txn implements the transaction/history engine: a closed set of
// tagged, inverse-producing table mutations plus linear undo/redo stacks.
package txn

import (
	"github.com/msheldon32/tabular-sub000/rowfilter"
	"github.com/msheldon32/tabular-sub000/table"
)

// Transaction is a reversible table mutation. Apply performs the
// mutation and returns its own inverse, computed from whatever state it
// needed to capture at apply time (e.g. the data a delete removed).
type Transaction interface {
	Apply(t *table.Table) Transaction
}

// SetCell overwrites a single cell.
type SetCell struct {
	Row, Col int
	Old, New string
}

func (txn SetCell) Apply(t *table.Table) Transaction {
	t.Set(txn.Row, txn.Col, txn.New)
	return SetCell{Row: txn.Row, Col: txn.Col, Old: txn.New, New: txn.Old}
}

// SetSpan overwrites a rectangular block of cells.
type SetSpan struct {
	Row, Col int
	OldData  [][]string
	NewData  [][]string
}

func (txn SetSpan) Apply(t *table.Table) Transaction {
	t.SetSpan(txn.Row, txn.Col, txn.NewData)
	return SetSpan{Row: txn.Row, Col: txn.Col, OldData: txn.NewData, NewData: txn.OldData}
}

// InsertRow inserts a single empty row at Idx.
type InsertRow struct{ Idx int }

func (txn InsertRow) Apply(t *table.Table) Transaction {
	t.InsertRow(txn.Idx)
	return DeleteRow{Idx: txn.Idx}
}

// InsertRowWithData inserts a row with literal data at Idx.
type InsertRowWithData struct {
	Idx  int
	Data []string
}

func (txn InsertRowWithData) Apply(t *table.Table) Transaction {
	t.InsertRowWithData(txn.Idx, txn.Data)
	return DeleteRow{Idx: txn.Idx}
}

// DeleteRow removes the row at Idx. Apply does not read or fill Data:
// the removed row is taken from the table and carried in the returned
// InsertRowWithData inverse, so Data may be left zero.
type DeleteRow struct {
	Idx  int
	Data []string
}

func (txn DeleteRow) Apply(t *table.Table) Transaction {
	data := t.DeleteRow(txn.Idx)
	return InsertRowWithData{Idx: txn.Idx, Data: data}
}

// InsertRowsBulk inserts N empty rows at Idx.
type InsertRowsBulk struct {
	Idx, N int
}

func (txn InsertRowsBulk) Apply(t *table.Table) Transaction {
	t.InsertRowsBulk(txn.Idx, txn.N)
	return DeleteRowsBulk{Idx: txn.Idx, N: txn.N}
}

// InsertRowsWithDataBulk inserts literal row data at Idx.
type InsertRowsWithDataBulk struct {
	Idx  int
	Rows [][]string
}

func (txn InsertRowsWithDataBulk) Apply(t *table.Table) Transaction {
	t.InsertRowsWithDataBulk(txn.Idx, txn.Rows)
	return DeleteRowsBulk{Idx: txn.Idx, N: len(txn.Rows)}
}

// DeleteRowsBulk removes N rows starting at Idx.
type DeleteRowsBulk struct {
	Idx, N int
	Data   [][]string
}

func (txn DeleteRowsBulk) Apply(t *table.Table) Transaction {
	data, _ := t.DeleteRowsBulk(txn.Idx, txn.N)
	return InsertRowsWithDataBulk{Idx: txn.Idx, Rows: data}
}

// InsertCol inserts an empty column at Idx.
type InsertCol struct{ Idx int }

func (txn InsertCol) Apply(t *table.Table) Transaction {
	t.InsertCol(txn.Idx)
	return DeleteCol{Idx: txn.Idx}
}

// InsertColWithData inserts a column with literal per-row data at Idx.
type InsertColWithData struct {
	Idx  int
	Data []string
}

func (txn InsertColWithData) Apply(t *table.Table) Transaction {
	t.InsertColWithData(txn.Idx, txn.Data)
	return DeleteCol{Idx: txn.Idx}
}

// DeleteCol removes the column at Idx.
type DeleteCol struct {
	Idx  int
	Data []string
}

func (txn DeleteCol) Apply(t *table.Table) Transaction {
	data := t.DeleteCol(txn.Idx)
	return InsertColWithData{Idx: txn.Idx, Data: data}
}

// PermuteRows reorders every row according to Perm.
type PermuteRows struct{ Perm table.Permutation }

func (txn PermuteRows) Apply(t *table.Table) Transaction {
	t.ApplyRowPermutation(txn.Perm)
	return PermuteRows{Perm: txn.Perm.Inverse()}
}

// PermuteCols reorders every column according to Perm.
type PermuteCols struct{ Perm table.Permutation }

func (txn PermuteCols) Apply(t *table.Table) Transaction {
	t.ApplyColPermutation(txn.Perm)
	return PermuteCols{Perm: txn.Perm.Inverse()}
}

// SetFilter records a Row Manager state transition. Apply does not touch
// the table or the row filter, and History does not either: the mode
// handler that records, undoes or redoes it applies the carried state
// (see FilterStateOf) to the live rowfilter.Manager.
type SetFilter struct {
	Old, New rowfilter.State
}

func (txn SetFilter) Apply(t *table.Table) Transaction {
	return SetFilter{Old: txn.New, New: txn.Old}
}

// Batch groups a sequence of transactions that must apply and invert as
// one unit.
type Batch struct{ Items []Transaction }

func (txn Batch) Apply(t *table.Table) Transaction {
	inverses := make([]Transaction, len(txn.Items))
	for i, item := range txn.Items {
		inverses[len(txn.Items)-1-i] = item.Apply(t)
	}
	return Batch{Items: inverses}
}

// EstimatedSize approximates the number of cells a transaction touches,
// used to decide whether to offload it to the background worker.
func EstimatedSize(txn Transaction) int {
	switch n := txn.(type) {
	case SetCell:
		return 1
	case SetSpan:
		return len(n.NewData) * spanWidth(n.NewData)
	case InsertRowsBulk:
		return n.N
	case InsertRowsWithDataBulk:
		return len(n.Rows)
	case DeleteRowsBulk:
		return n.N
	case PermuteRows:
		return len(n.Perm)
	case PermuteCols:
		return len(n.Perm)
	case Batch:
		total := 0
		for _, item := range n.Items {
			total += EstimatedSize(item)
		}
		return total
	default:
		return 1
	}
}

func spanWidth(data [][]string) int {
	if len(data) == 0 {
		return 0
	}
	return len(data[0])
}

// largeThreshold mirrors §4.10's background-offload trigger.
const largeThreshold = 50000

// IsLarge reports whether txn's estimated size warrants background
// execution.
func IsLarge(txn Transaction) bool {
	return EstimatedSize(txn) >= largeThreshold
}

// FilterStateOf returns the new Row Manager state carried by txn, if it
// is (or contains) a SetFilter.
func FilterStateOf(txn Transaction) (rowfilter.State, bool) {
	switch n := txn.(type) {
	case SetFilter:
		return n.New, true
	case Batch:
		for _, item := range n.Items {
			if s, ok := FilterStateOf(item); ok {
				return s, true
			}
		}
	}
	return rowfilter.State{}, false
}
