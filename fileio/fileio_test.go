package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsBlankGrid(t *testing.T) {
	io := New(filepath.Join(t.TempDir(), "nope.csv"), 0, false)
	res, err := io.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, len(res.Rows))
	assert.Equal(t, 5, res.NumCols)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "new file")
}

func TestLoadPadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2\n3,4,5\n"), 0644))

	io := New(path, 0, false)
	res, err := io.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, res.NumCols)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "padded")
	assert.Equal(t, []string{"1", "2", ""}, res.Rows[1])
}

func TestWriteThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	io := New(path, 0, false)
	rows := [][]string{{"a", "b"}, {"1", "2"}}
	require.NoError(t, io.Write(rows))

	res, err := io.Load()
	require.NoError(t, err)
	assert.Equal(t, rows, res.Rows)
}

func TestWriteReadOnlyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	io := New(path, 0, true)
	err := io.Write([][]string{{"a"}})
	assert.Error(t, err)
}

func TestTSVDelimiterDetectedFromExtension(t *testing.T) {
	io := New("data.tsv", 0, false)
	assert.Equal(t, '\t', io.Delim)
	assert.Equal(t, "tab", io.DelimiterName())
}

func TestNextForkPathFindsNextUnusedSuffix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"data.csv", "data.1.csv", "data.2.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	next := NextForkPath(filepath.Join(dir, "data.csv"))
	assert.Equal(t, filepath.Join(dir, "data.3.csv"), next)
}

func TestNextForkPathFirstFork(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("x"), 0644))
	next := NextForkPath(filepath.Join(dir, "data.csv"))
	assert.Equal(t, filepath.Join(dir, "data.1.csv"), next)
}
