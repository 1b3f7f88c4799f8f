package table

import (
	"sort"

	"github.com/msheldon32/tabular-sub000/numparse"
)

// SortDirection controls ascending vs descending ordering.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// Permutation is a length-N index vector where p[i] = j means the new
// position i is filled by what was previously at position j.
type Permutation []int

// IsIdentity reports whether p leaves every element in place.
func (p Permutation) IsIdentity() bool {
	for i, j := range p {
		if i != j {
			return false
		}
	}
	return true
}

// Inverse returns the permutation that undoes p.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for i, j := range p {
		inv[j] = i
	}
	return inv
}

// sortKey holds a row/col's classified sort key alongside its original
// index, used to produce a stable, NaN-last ordering.
type sortKey struct {
	origIdx    int
	text       string
	numeric    float64
	isNumeric  bool
	parseFails bool
}

// GetSortPermutation classifies the given column as numeric or text
// (sampling non-header cells when skipHeader is true) and returns the
// permutation that would sort the table by that column. If the rows are
// already sorted, it returns (nil, false) so the caller can report
// "already sorted".
func (t *Table) GetSortPermutation(col int, dir SortDirection, skipHeader bool) (Permutation, bool) {
	return SortPermutationFromColumn(t.CloneColumn(col), dir, skipHeader)
}

// CloneColumn returns a flat, independent copy of column col's values in
// row order, suitable for handing to a background sort worker.
func (t *Table) CloneColumn(col int) []string {
	colData := t.GetColsCloned(col, 1)
	flat := make([]string, len(colData))
	for i, row := range colData {
		flat[i] = row[0]
	}
	return flat
}

// GetColSortPermutation is the column-axis analogue of GetSortPermutation,
// classifying and sorting by the values found in one row.
func (t *Table) GetColSortPermutation(row int, dir SortDirection, skipFirst bool) (Permutation, bool) {
	return SortPermutationFromColumn(t.CloneRow(row), dir, skipFirst)
}

// CloneRow returns a flat, independent copy of row row's cells in column
// order, suitable for handing to a background sort worker.
func (t *Table) CloneRow(row int) []string {
	rowData := t.GetRowsCloned(row, 1)
	if len(rowData) == 0 {
		return nil
	}
	return append([]string(nil), rowData[0]...)
}

func buildSortKeysFromValues(values []string, start, total int) []sortKey {
	sample := make([]string, 0, total-start)
	for i := start; i < total && i < len(values); i++ {
		sample = append(sample, values[i])
	}
	isNumericCol := numparse.ClassifyColumn(sample) == numparse.ColumnNumeric

	keys := make([]sortKey, 0, total-start)
	for i := start; i < total; i++ {
		var v string
		if i < len(values) {
			v = values[i]
		}
		keys = append(keys, buildKey(i, v, isNumericCol))
	}
	return keys
}

// SortPermutationFromColumn computes the same permutation GetSortPermutation
// would, but from an already-cloned slice of column values rather than a
// live Table. This is what the background sort worker runs against, so a
// sort computation never reads the live Table concurrently with edits on
// the main thread.
func SortPermutationFromColumn(values []string, dir SortDirection, skipHeader bool) (Permutation, bool) {
	total := len(values)
	start := 0
	if skipHeader {
		start = 1
	}
	if total-start <= 1 {
		return nil, false
	}
	keys := buildSortKeysFromValues(values, start, total)
	perm := sortedPermutation(keys, dir, total, start)
	if perm.IsIdentity() {
		return nil, false
	}
	return perm, true
}

func buildKey(origIdx int, text string, isNumericCol bool) sortKey {
	k := sortKey{origIdx: origIdx, text: text}
	if isNumericCol {
		v, ok := numparse.Parse(text)
		k.isNumeric = true
		k.numeric = v
		k.parseFails = !ok
	}
	return k
}

// sortedPermutation builds the full-length permutation (identity for the
// untouched prefix, e.g. a skipped header) given the sorted order of keys.
func sortedPermutation(keys []sortKey, dir SortDirection, total, start int) Permutation {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.isNumeric {
			// Non-parseable values always sort to the end, regardless
			// of direction.
			if a.parseFails != b.parseFails {
				return !a.parseFails
			}
			if a.parseFails && b.parseFails {
				return false
			}
			if a.numeric == b.numeric {
				return false
			}
			if dir == Ascending {
				return a.numeric < b.numeric
			}
			return a.numeric > b.numeric
		}
		if a.text == b.text {
			return false
		}
		if dir == Ascending {
			return a.text < b.text
		}
		return a.text > b.text
	})

	perm := make(Permutation, total)
	for i := 0; i < start; i++ {
		perm[i] = i
	}
	for i, k := range keys {
		perm[start+i] = k.origIdx
	}
	return perm
}

// ApplyRowPermutation reorders rows in place according to perm, where
// perm[i] names the original row index that should occupy new position i.
func (t *Table) ApplyRowPermutation(perm Permutation) {
	flat := make([][]string, 0, t.NumRows())
	for _, c := range t.chunks {
		flat = append(flat, c.rows...)
	}
	if len(perm) != len(flat) {
		return
	}
	reordered := make([][]string, len(flat))
	for i, j := range perm {
		reordered[i] = flat[j]
	}
	t.replaceFlatRows(reordered)
	t.widthsDirty = true
}

func (t *Table) replaceFlatRows(flat [][]string) {
	var chunks []*Chunk
	for i := 0; i < len(flat); i += ChunkSize {
		end := i + ChunkSize
		if end > len(flat) {
			end = len(flat)
		}
		chunks = append(chunks, &Chunk{rows: flat[i:end]})
	}
	if len(chunks) == 0 {
		chunks = []*Chunk{{}}
	}
	t.chunks = chunks
}

// ApplyColPermutation reorders columns in place according to perm.
func (t *Table) ApplyColPermutation(perm Permutation) {
	if len(perm) != t.numCols {
		return
	}
	for _, c := range t.chunks {
		for i, r := range c.rows {
			newRow := make([]string, len(r))
			for dst, src := range perm {
				newRow[dst] = r[src]
			}
			c.rows[i] = newRow
		}
	}
	newWidths := make([]int, len(perm))
	for dst, src := range perm {
		if src < len(t.colWidths) {
			newWidths[dst] = t.colWidths[src]
		}
	}
	t.colWidths = newWidths
	t.widthsDirty = true
}
