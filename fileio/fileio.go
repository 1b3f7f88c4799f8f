// Package fileio implements the delimited-text file boundary (§6.5):
// loading a CSV/TSV file into row-major cells (padding short rows and
// reporting a warning), writing a table back out atomically, and
// picking a fork filename when the source was opened read-only.
package fileio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// Format is the detected delimited-text flavor.
type Format int

const (
	FormatCSV Format = iota
	FormatTSV
)

func formatFromExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	default:
		return FormatCSV, false
	}
}

// delimiterFor returns the byte delimiter for a format.
func delimiterFor(f Format) rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// LoadResult is a loaded table's raw rows plus any warnings produced
// while normalizing it (currently just short-row padding).
type LoadResult struct {
	Rows     [][]string
	NumCols  int
	Warnings []string
}

// IO is a bound file path plus its resolved delimiter and read-only
// status. A nil path (new, unnamed buffer) is valid: Load returns an
// empty single-cell table and Write always fails with ErrNoPath.
type IO struct {
	Path     string
	Format   Format
	Delim    rune
	ReadOnly bool
}

// ErrNoPath is returned by Write when no file path is bound.
var ErrNoPath = errors.New("no file path specified")

// New resolves the format and delimiter for path. An explicit delim
// (non-zero) always wins; otherwise the extension decides, falling
// back to comma.
func New(path string, delim rune, readOnly bool) IO {
	format, _ := formatFromExtension(path)
	if delim == 0 {
		delim = delimiterFor(format)
	}
	return IO{Path: path, Format: format, Delim: delim, ReadOnly: readOnly}
}

// DelimiterName gives the human-readable name shown in the status bar.
func (f IO) DelimiterName() string {
	switch f.Delim {
	case ',':
		return "comma"
	case '\t':
		return "tab"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	default:
		return "custom"
	}
}

// Load reads the bound file into row-major cells. A missing path
// produces a single empty cell; a missing file produces a 10x5 blank
// grid with a "new file" warning, mirroring an editor opening a
// filename that doesn't exist yet. Short rows are padded to the widest
// row seen, with a warning naming the resulting width.
func (f IO) Load() (LoadResult, error) {
	if f.Path == "" {
		return LoadResult{Rows: [][]string{{""}}, NumCols: 1}, nil
	}

	file, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		rows := make([][]string, 10)
		for i := range rows {
			rows[i] = make([]string, 5)
		}
		return LoadResult{
			Rows:     rows,
			NumCols:  5,
			Warnings: []string{"new file: " + f.Path},
		}, nil
	} else if err != nil {
		return LoadResult{}, errors.Wrap(err, "os.Open")
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = f.Delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	var rows [][]string
	maxCols := 0
	needsPadding := false

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return LoadResult{}, errors.Wrap(err, "csv.Read")
		}
		row := append([]string(nil), record...)
		if len(row) > maxCols {
			if maxCols > 0 {
				needsPadding = true
			}
			maxCols = len(row)
		} else if len(row) < maxCols {
			needsPadding = true
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return LoadResult{Rows: [][]string{{""}}, NumCols: 1}, nil
	}

	var warnings []string
	if needsPadding {
		for i, row := range rows {
			if len(row) < maxCols {
				padded := make([]string, maxCols)
				copy(padded, row)
				rows[i] = padded
			}
		}
		warnings = append(warnings, "padded rows with empty cells (max width: "+strconv.Itoa(maxCols)+" columns)")
	}

	return LoadResult{Rows: rows, NumCols: maxCols, Warnings: warnings}, nil
}

// Write saves rows to the bound path atomically via renameio, the same
// temp-then-rename technique the ambient file-saving layer uses. It
// refuses to write when the IO was opened read-only.
func (f IO) Write(rows [][]string) error {
	if f.ReadOnly {
		return errors.New("file opened in read-only mode (use ':fork' to save your work)")
	}
	if f.Path == "" {
		return ErrNoPath
	}

	pf, err := renameio.NewPendingFile(f.Path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return errors.Wrap(err, "renameio.NewPendingFile")
	}
	defer pf.Cleanup()

	w := csv.NewWriter(pf)
	w.Comma = f.Delim
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "csv.Write")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "csv.Flush")
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(err, "renameio.CloseAtomicallyReplace")
	}
	return nil
}

// Fork derives a new, writable IO for the ":fork" command: same
// delimiter and format, but a filename chosen by NextForkPath so the
// original file is never overwritten.
func (f IO) Fork() IO {
	path := f.Path
	if path == "" {
		if f.Delim == '\t' {
			path = "tabular_fork.tsv"
		} else {
			path = "tabular_fork.csv"
		}
	}
	return IO{Path: NextForkPath(path), Format: f.Format, Delim: f.Delim, ReadOnly: false}
}

// NextForkPath implements the suffix-wins forking scheme: given
// "data.csv", it picks "data.1.csv", or one past the highest ".N.csv"
// sibling found alongside it in the same directory.
func NextForkPath(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	name := filepath.Base(path)

	var ext string
	var stem string
	switch {
	case strings.HasSuffix(name, ".csv"):
		ext = "csv"
		stem = strings.TrimSuffix(name, ".csv")
	case strings.HasSuffix(name, ".tsv"):
		ext = "tsv"
		stem = strings.TrimSuffix(name, ".tsv")
	default:
		ext = "csv"
		stem = name
	}

	header, startN := splitTrailingSuffix(stem)
	maxSuffix := startN

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			entryName := e.Name()
			entryStem, ok := strings.CutSuffix(entryName, "."+ext)
			if !ok {
				continue
			}
			if entryStem == header {
				if maxSuffix < 0 {
					maxSuffix = 0
				}
				continue
			}
			h, n, hasSuffix := splitSuffixIfDigits(entryStem)
			if !hasSuffix || h != header {
				continue
			}
			if n > maxSuffix {
				maxSuffix = n
			}
		}
	}

	return filepath.Join(dir, header+"."+strconv.Itoa(maxSuffix+1)+"."+ext)
}

// splitTrailingSuffix splits "header.N" into ("header", N) when the
// part after the last '.' is all digits, otherwise returns (stem, 0).
func splitTrailingSuffix(stem string) (string, int) {
	if h, n, ok := splitSuffixIfDigits(stem); ok {
		return h, n
	}
	return stem, 0
}

func splitSuffixIfDigits(stem string) (header string, n int, ok bool) {
	i := strings.LastIndexByte(stem, '.')
	if i < 0 {
		return "", 0, false
	}
	suffix := stem[i+1:]
	if suffix == "" || !isAllDigits(suffix) {
		return "", 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", 0, false
	}
	return stem[:i], n, true
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !utf8.ValidRune(r) || r < '0' || r > '9' {
			return false
		}
	}
	return true
}
