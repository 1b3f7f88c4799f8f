package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellRefRoundTrip(t *testing.T) {
	for n := 0; n < 1000; n += 7 {
		letters := ColumnLetters(n)
		got := ColumnFromLetters(letters)
		assert.Equal(t, n, got, "letters=%s", letters)
	}
}

func TestParseA1(t *testing.T) {
	ref, ok := ParseA1("A1")
	require.True(t, ok)
	assert.Equal(t, CellRef{Row: 0, Col: 0}, ref)

	ref, ok = ParseA1("AA123")
	require.True(t, ok)
	assert.Equal(t, CellRef{Row: 122, Col: 26}, ref)

	_, ok = ParseA1("1A")
	assert.False(t, ok)

	_, ok = ParseA1("A0")
	assert.False(t, ok)
}

func TestSetGetOOB(t *testing.T) {
	tbl := New(3, 3)
	tbl.Set(1, 1, "hi")
	v, ok := tbl.Get(1, 1)
	require.True(t, ok)
	assert.Equal(t, "hi", v)

	tbl.Set(100, 100, "nope") // no-op
	_, ok = tbl.Get(100, 100)
	assert.False(t, ok)
}

func TestInsertRowsBulkGrowsColumns(t *testing.T) {
	tbl := New(2, 2)
	tbl.InsertRowWithData(0, []string{"a", "b", "c"})
	assert.Equal(t, 3, tbl.NumCols())
	v, ok := tbl.Get(0, 2)
	require.True(t, ok)
	assert.Equal(t, "c", v)

	// Previously existing rows are padded with empty strings.
	v, ok = tbl.Get(1, 2)
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestChunkInvariantsAfterBulkOps(t *testing.T) {
	tbl := New(0, 2)
	rows := make([][]string, 3000)
	for i := range rows {
		rows[i] = []string{"x", "y"}
	}
	tbl.InsertRowsWithDataBulk(0, rows)

	require.Equal(t, 3000, tbl.NumRows())
	for i, c := range tbl.chunks {
		if i < len(tbl.chunks)-1 {
			assert.Equal(t, ChunkSize, len(c.rows))
		} else {
			assert.LessOrEqual(t, len(c.rows), ChunkSize)
		}
		for _, r := range c.rows {
			assert.Equal(t, tbl.NumCols(), len(r))
		}
	}

	tbl.DeleteRowsBulk(500, 600)
	require.Equal(t, 2400, tbl.NumRows())
	for i, c := range tbl.chunks {
		if i < len(tbl.chunks)-1 {
			assert.Equal(t, ChunkSize, len(c.rows))
		}
	}
}

func TestDeleteOnlyRowClearsInsteadOfRemoving(t *testing.T) {
	tbl := New(1, 2)
	tbl.Set(0, 0, "x")
	removed, cleared := tbl.DeleteRowsBulk(0, 1)
	assert.True(t, cleared)
	assert.Equal(t, []string{"x", ""}, removed[0])
	assert.Equal(t, 1, tbl.NumRows())
	v, _ := tbl.Get(0, 0)
	assert.Equal(t, "", v)
}

func TestDeleteOnlyColumnClearsInsteadOfRemoving(t *testing.T) {
	tbl := New(2, 1)
	tbl.Set(0, 0, "x")
	tbl.Set(1, 0, "y")
	removed := tbl.DeleteCol(0)
	assert.Equal(t, []string{"x", "y"}, removed)
	assert.Equal(t, 1, tbl.NumCols())
	v, _ := tbl.Get(0, 0)
	assert.Equal(t, "", v)
}

func TestGetSpanPadsOOB(t *testing.T) {
	tbl := New(2, 2)
	tbl.Set(0, 0, "a")
	span := tbl.GetSpan(0, 4, 0, 4)
	require.Len(t, span, 4)
	assert.Equal(t, "a", span[0][0])
	assert.Equal(t, "", span[3][3])
}

func TestSortPermutationRoundTrip(t *testing.T) {
	tbl := NewFromRows([][]string{
		{"a", "95"},
		{"b", "87"},
		{"c", "92"},
	})
	perm, ok := tbl.GetSortPermutation(1, Ascending, false)
	require.True(t, ok)

	before := tbl.GetRowsCloned(0, tbl.NumRows())
	tbl.ApplyRowPermutation(perm)
	after := tbl.GetRowsCloned(0, tbl.NumRows())
	assert.Equal(t, []string{"b", "87"}, after[0])
	assert.Equal(t, []string{"c", "92"}, after[1])
	assert.Equal(t, []string{"a", "95"}, after[2])

	tbl.ApplyRowPermutation(perm.Inverse())
	restored := tbl.GetRowsCloned(0, tbl.NumRows())
	assert.Equal(t, before, restored)
}

func TestSortPermutationNaNLast(t *testing.T) {
	tbl := NewFromRows([][]string{
		{"3"},
		{"x"},
		{"1"},
		{"2"},
	})
	perm, ok := tbl.GetSortPermutation(0, Ascending, false)
	require.True(t, ok)
	tbl.ApplyRowPermutation(perm)
	rows := tbl.GetRowsCloned(0, tbl.NumRows())
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "3", rows[2][0])
	assert.Equal(t, "x", rows[3][0])
}

func TestAlreadySortedReturnsNoPermutation(t *testing.T) {
	tbl := NewFromRows([][]string{{"1"}, {"2"}, {"3"}})
	_, ok := tbl.GetSortPermutation(0, Ascending, false)
	assert.False(t, ok)
}

func TestColWidthsMonotoneGrow(t *testing.T) {
	tbl := New(1, 1)
	tbl.Set(0, 0, "ab")
	widths := tbl.ColWidths()
	assert.Equal(t, MinColWidth, widths[0]) // floor applies for short text

	tbl.Set(0, 0, "a very long piece of text that exceeds the cap by a lot")
	widths = tbl.ColWidths()
	assert.Equal(t, MaxColWidth, widths[0])
}
