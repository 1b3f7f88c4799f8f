// Package table implements the chunked grid storage at the core of the
// editor: rows grouped into fixed-size chunks for locality, incrementally
// maintained column display widths, and bulk row/column edit operations
// that preserve the store's chunking invariants.
package table

import (
	"runtime"
	"sync"
)

// Chunk is the unit of row locality. Every chunk except possibly the
// last contains exactly ChunkSize rows.
const ChunkSize = 1024

// MaxColWidth caps the cached display width of any column.
const MaxColWidth = 30

// MinColWidth is the floor for a column's cached display width.
const MinColWidth = 3

// widthParallelThreshold is the cell count above which column-width
// recomputation runs concurrently across columns.
const widthParallelThreshold = 10000

// Chunk holds a contiguous block of rows, each with exactly numCols cells.
type Chunk struct {
	rows [][]string
}

// Table is a rectangular grid of cell text, physically stored as a
// sequence of row chunks.
type Table struct {
	chunks      []*Chunk
	numCols     int
	colWidths   []int
	widthsDirty bool
}

// New constructs an empty table with the given number of rows and
// columns, all cells initialized to the empty string.
func New(rows, cols int) *Table {
	if cols < 0 {
		cols = 0
	}
	t := &Table{numCols: cols}
	t.colWidths = make([]int, cols)
	for i := range t.colWidths {
		t.colWidths[i] = MinColWidth
	}
	if rows > 0 {
		t.InsertRowsBulk(0, rows)
	} else {
		// Keep at least one chunk so chunk invariants hold trivially.
		t.chunks = append(t.chunks, &Chunk{})
	}
	return t
}

// NewFromRows constructs a table from literal row data, padding short
// rows and widening the table if any row is longer than the rest.
func NewFromRows(rows [][]string) *Table {
	maxCols := 0
	for _, r := range rows {
		if len(r) > maxCols {
			maxCols = len(r)
		}
	}
	t := &Table{numCols: maxCols}
	t.colWidths = make([]int, maxCols)
	for i := range t.colWidths {
		t.colWidths[i] = MinColWidth
	}
	if len(rows) == 0 {
		t.chunks = append(t.chunks, &Chunk{})
		return t
	}
	t.InsertRowsWithDataBulk(0, rows)
	return t
}

// NumRows returns the total number of rows across all chunks.
func (t *Table) NumRows() int {
	n := 0
	for _, c := range t.chunks {
		n += len(c.rows)
	}
	return n
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return t.numCols
}

// locate finds the chunk index and in-chunk row index for a global row.
// ok is false if row is out of bounds.
func (t *Table) locate(row int) (chunkIdx, rowIdx int, ok bool) {
	if row < 0 {
		return 0, 0, false
	}
	base := 0
	for i, c := range t.chunks {
		if row < base+len(c.rows) {
			return i, row - base, true
		}
		base += len(c.rows)
	}
	return 0, 0, false
}

// Get returns the text of the cell at (row, col), or "" and false if the
// position is out of bounds.
func (t *Table) Get(row, col int) (string, bool) {
	if col < 0 || col >= t.numCols {
		return "", false
	}
	ci, ri, ok := t.locate(row)
	if !ok {
		return "", false
	}
	return t.chunks[ci].rows[ri][col], true
}

// Set writes text into the cell at (row, col). Out-of-bounds writes are
// no-ops. Column width grows monotonically; it never shrinks on write.
func (t *Table) Set(row, col int, text string) {
	if col < 0 || col >= t.numCols {
		return
	}
	ci, ri, ok := t.locate(row)
	if !ok {
		return
	}
	t.chunks[ci].rows[ri][col] = text
	w := clampWidth(displayWidth(text))
	if w > t.colWidths[col] {
		t.colWidths[col] = w
	}
}

// EnsureCols grows the table to at least n columns, a no-op if it
// already has n or more.
func (t *Table) EnsureCols(n int) {
	t.growColumns(n)
}

// SetSpan writes a rectangular block of cell data with its top-left
// corner at (row, col). Columns beyond the current width grow the
// table; rows beyond the current row count are silently dropped — a
// paste never inserts new rows.
func (t *Table) SetSpan(row, col int, data [][]string) {
	maxWidth := 0
	for _, r := range data {
		if len(r) > maxWidth {
			maxWidth = len(r)
		}
	}
	if col+maxWidth > t.numCols {
		t.growColumns(col + maxWidth)
	}
	for i, r := range data {
		for j, v := range r {
			t.Set(row+i, col+j, v)
		}
	}
}

func clampWidth(w int) int {
	if w < MinColWidth {
		return MinColWidth
	}
	if w > MaxColWidth {
		return MaxColWidth
	}
	return w
}

// padRow pads or extends row to have exactly numCols entries.
func padRow(row []string, numCols int) []string {
	if len(row) == numCols {
		return row
	}
	out := make([]string, numCols)
	copy(out, row)
	return out
}

// growColumns widens every row in the table to accommodate newCols
// columns (called when an inbound row is longer than the current table).
func (t *Table) growColumns(newCols int) {
	if newCols <= t.numCols {
		return
	}
	for _, c := range t.chunks {
		for i, r := range c.rows {
			c.rows[i] = padRow(r, newCols)
		}
	}
	grownWidths := make([]int, newCols)
	copy(grownWidths, t.colWidths)
	for i := t.numCols; i < newCols; i++ {
		grownWidths[i] = MinColWidth
	}
	t.colWidths = grownWidths
	t.numCols = newCols
}

// InsertRow inserts a single empty row at idx.
func (t *Table) InsertRow(idx int) {
	t.InsertRowWithData(idx, nil)
}

// InsertRowWithData inserts a row at idx with the given cell data,
// padding short rows and widening the table for long ones.
func (t *Table) InsertRowWithData(idx int, data []string) {
	t.InsertRowsWithDataBulk(idx, [][]string{data})
}

// InsertRowsBulk inserts n empty rows at idx.
func (t *Table) InsertRowsBulk(idx, n int) {
	rows := make([][]string, n)
	t.InsertRowsWithDataBulk(idx, rows)
}

// InsertRowsWithDataBulk inserts len(rows) rows at idx, cascading
// overflow forward between chunks to preserve the fixed chunk size.
func (t *Table) InsertRowsWithDataBulk(idx int, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	maxIncoming := t.numCols
	for _, r := range rows {
		if len(r) > maxIncoming {
			maxIncoming = len(r)
		}
	}
	if maxIncoming > t.numCols {
		t.growColumns(maxIncoming)
	}

	padded := make([][]string, len(rows))
	for i, r := range rows {
		padded[i] = padRow(r, t.numCols)
	}

	if len(t.chunks) == 0 {
		t.chunks = append(t.chunks, &Chunk{})
	}

	total := t.NumRows()
	if idx < 0 {
		idx = 0
	}
	if idx > total {
		idx = total
	}

	ci, ri, ok := t.locate(idx)
	if !ok {
		// idx == total: append at the end of the last chunk.
		ci = len(t.chunks) - 1
		ri = len(t.chunks[ci].rows)
	}

	chunk := t.chunks[ci]
	newRows := make([][]string, 0, len(chunk.rows)+len(padded))
	newRows = append(newRows, chunk.rows[:ri]...)
	newRows = append(newRows, padded...)
	newRows = append(newRows, chunk.rows[ri:]...)
	chunk.rows = newRows
	t.rebalanceFrom(ci)
}

// rebalanceFrom pushes rows forward between chunks starting at ci so that
// every chunk except possibly the last holds exactly ChunkSize rows, and
// splits any chunk that grew beyond ChunkSize.
func (t *Table) rebalanceFrom(ci int) {
	// First, split any oversized chunks by pushing overflow to the next
	// chunk (inserting a new chunk if necessary).
	i := ci
	for i < len(t.chunks) {
		c := t.chunks[i]
		if len(c.rows) <= ChunkSize {
			i++
			continue
		}
		overflow := c.rows[ChunkSize:]
		c.rows = c.rows[:ChunkSize:ChunkSize]
		if i+1 < len(t.chunks) {
			next := t.chunks[i+1]
			next.rows = append(append([][]string{}, overflow...), next.rows...)
		} else {
			t.chunks = append(t.chunks, &Chunk{rows: append([][]string{}, overflow...)})
		}
		i++
	}
}

// DeleteRow removes the row at idx. If it is the table's only row, the
// row is cleared instead of removed so the table is never empty.
func (t *Table) DeleteRow(idx int) []string {
	rows, _ := t.DeleteRowsBulk(idx, 1)
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

// DeleteRowsBulk removes up to n rows starting at idx and returns the
// removed data. If the request would remove every row in the table, the
// last remaining row is cleared in place and kept instead.
func (t *Table) DeleteRowsBulk(idx, n int) (removed [][]string, actuallyCleared bool) {
	total := t.NumRows()
	if idx < 0 || idx >= total || n <= 0 {
		return nil, false
	}
	if idx+n > total {
		n = total - idx
	}

	if n >= total {
		// Clear the single remaining row instead of emptying the table.
		old := make([][]string, 0, total)
		for _, c := range t.chunks {
			for _, r := range c.rows {
				old = append(old, append([]string{}, r...))
			}
		}
		t.chunks = []*Chunk{{rows: [][]string{make([]string, t.numCols)}}}
		return old, true
	}

	removed = make([][]string, 0, n)
	remaining := n
	for remaining > 0 {
		ci, ri, ok := t.locate(idx)
		if !ok {
			break
		}
		c := t.chunks[ci]
		take := len(c.rows) - ri
		if take > remaining {
			take = remaining
		}
		removed = append(removed, c.rows[ri:ri+take]...)
		c.rows = append(c.rows[:ri], c.rows[ri+take:]...)
		remaining -= take
	}

	t.compactChunks()
	return removed, false
}

// compactChunks pulls rows forward from later chunks until every chunk
// except possibly the last is exactly ChunkSize, and drops empty chunks
// (keeping at least one).
func (t *Table) compactChunks() {
	flat := make([][]string, 0, t.NumRows())
	for _, c := range t.chunks {
		flat = append(flat, c.rows...)
	}

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

// InsertCol inserts an empty column at idx.
func (t *Table) InsertCol(idx int) {
	t.InsertColWithData(idx, nil)
}

// InsertColWithData inserts a column at idx with the given per-row data,
// padding short columns with empty strings.
func (t *Table) InsertColWithData(idx int, data []string) {
	if idx < 0 {
		idx = 0
	}
	if idx > t.numCols {
		idx = t.numCols
	}
	row := 0
	for _, c := range t.chunks {
		for i, r := range c.rows {
			var v string
			if row < len(data) {
				v = data[row]
			}
			newRow := make([]string, len(r)+1)
			copy(newRow, r[:idx])
			newRow[idx] = v
			copy(newRow[idx+1:], r[idx:])
			c.rows[i] = newRow
			row++
		}
	}
	t.numCols++
	newWidths := make([]int, t.numCols)
	copy(newWidths, t.colWidths[:idx])
	newWidths[idx] = MinColWidth
	copy(newWidths[idx+1:], t.colWidths[idx:])
	t.colWidths = newWidths
	t.RecomputeColWidth(idx)
}

// DeleteCol removes the column at idx and returns its data top to
// bottom. If it is the table's only column, the column is cleared
// instead of removed.
func (t *Table) DeleteCol(idx int) []string {
	if idx < 0 || idx >= t.numCols {
		return nil
	}

	removed := make([]string, 0, t.NumRows())
	if t.numCols == 1 {
		for _, c := range t.chunks {
			for i, r := range c.rows {
				removed = append(removed, r[0])
				c.rows[i] = []string{""}
			}
		}
		t.colWidths[0] = MinColWidth
		return removed
	}

	for _, c := range t.chunks {
		for i, r := range c.rows {
			removed = append(removed, r[idx])
			newRow := make([]string, len(r)-1)
			copy(newRow, r[:idx])
			copy(newRow[idx:], r[idx+1:])
			c.rows[i] = newRow
		}
	}
	t.numCols--
	t.colWidths = append(t.colWidths[:idx], t.colWidths[idx+1:]...)
	t.widthsDirty = true
	return removed
}

// GetSpan materializes the rectangular cell range [r1,r2) x [c1,c2),
// returning empty strings for any position beyond the stored table.
func (t *Table) GetSpan(r1, r2, c1, c2 int) [][]string {
	if r2 < r1 {
		r2 = r1
	}
	if c2 < c1 {
		c2 = c1
	}
	out := make([][]string, r2-r1)
	for i := range out {
		row := make([]string, c2-c1)
		for j := range row {
			v, _ := t.Get(r1+i, c1+j)
			row[j] = v
		}
		out[i] = row
	}
	return out
}

// GetRowsCloned returns n rows of cell data starting at start, padding
// with empty rows/cells when the range extends past the table.
func (t *Table) GetRowsCloned(start, n int) [][]string {
	return t.GetSpan(start, start+n, 0, t.numCols)
}

// GetColsCloned returns n columns of cell data (row-major) starting at
// start, padding with empty cells when the range extends past the table.
func (t *Table) GetColsCloned(start, n int) [][]string {
	return t.GetSpan(0, t.NumRows(), start, start+n)
}

// ColWidths returns the cached per-column display widths, recomputing
// them first if the cache is dirty.
func (t *Table) ColWidths() []int {
	if t.widthsDirty {
		t.RecomputeAllColWidths()
	}
	out := make([]int, len(t.colWidths))
	copy(out, t.colWidths)
	return out
}

// RecomputeColWidth recalculates the cached width of a single column by
// scanning every cell in it.
func (t *Table) RecomputeColWidth(col int) {
	if col < 0 || col >= t.numCols {
		return
	}
	w := MinColWidth
	for _, c := range t.chunks {
		for _, r := range c.rows {
			if cw := clampWidth(displayWidth(r[col])); cw > w {
				w = cw
			}
		}
	}
	t.colWidths[col] = w
}

// RecomputeAllColWidths recalculates the entire width cache. For tables
// with more than widthParallelThreshold cells, columns are scanned
// concurrently.
func (t *Table) RecomputeAllColWidths() {
	numCols := t.numCols
	if numCols == 0 {
		t.widthsDirty = false
		return
	}

	totalCells := t.NumRows() * numCols
	widths := make([]int, numCols)

	if totalCells < widthParallelThreshold {
		for col := 0; col < numCols; col++ {
			widths[col] = t.scanColWidth(col)
		}
	} else {
		workers := runtime.GOMAXPROCS(0)
		if workers > numCols {
			workers = numCols
		}
		if workers < 1 {
			workers = 1
		}
		var wg sync.WaitGroup
		colCh := make(chan int, numCols)
		for col := 0; col < numCols; col++ {
			colCh <- col
		}
		close(colCh)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for col := range colCh {
					widths[col] = t.scanColWidth(col)
				}
			}()
		}
		wg.Wait()
	}

	t.colWidths = widths
	t.widthsDirty = false
}

func (t *Table) scanColWidth(col int) int {
	w := MinColWidth
	for _, c := range t.chunks {
		for _, r := range c.rows {
			if cw := clampWidth(displayWidth(r[col])); cw > w {
				w = cw
			}
		}
	}
	return w
}

// MarkWidthsDirty forces the next ColWidths/RecomputeAllColWidths call
// to rescan every column. Used after operations (deletes, permutations)
// that can only shrink widths.
func (t *Table) MarkWidthsDirty() {
	t.widthsDirty = true
}
