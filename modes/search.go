package modes

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/table"
)

// searchState holds the in-progress query text and, once a search has
// run, the ordered list of matches plus which one is current.
type searchState struct {
	pattern string
	matches []table.CellRef
	index   int
}

func (e *Editor) handleSearch(event *tcell.EventKey) Outcome {
	switch event.Key() {
	case tcell.KeyEscape:
		e.mode = Normal
		return Outcome{}
	case tcell.KeyEnter:
		return e.commitSearch()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(e.search.pattern); n > 0 {
			r := []rune(e.search.pattern)
			e.search.pattern = string(r[:len(r)-1])
		}
		return Outcome{}
	case tcell.KeyRune:
		e.search.pattern += string(event.Rune())
		return Outcome{}
	default:
		return Outcome{}
	}
}

func (e *Editor) commitSearch() Outcome {
	e.mode = Normal
	pattern := strings.ToLower(e.search.pattern)
	if pattern == "" {
		return statusOutcome("")
	}

	var matches []table.CellRef
	for r := 0; r < e.Table.NumRows(); r++ {
		for c := 0; c < e.Table.NumCols(); c++ {
			text, _ := e.Table.Get(r, c)
			if strings.Contains(strings.ToLower(text), pattern) {
				matches = append(matches, table.CellRef{Row: r, Col: c})
			}
		}
	}

	e.search = searchState{pattern: e.search.pattern, matches: matches, index: -1}
	if len(matches) == 0 {
		return statusOutcome("no matches")
	}
	return e.gotoMatch(1)
}

// gotoMatch advances the current match index by delta (wrapping) and
// moves the cursor there, matching the original's strict-tuple
// next/prev semantics relative to the cursor's current position on the
// first call after a fresh search.
func (e *Editor) gotoMatch(delta int) Outcome {
	if len(e.search.matches) == 0 {
		return statusOutcome("no matches")
	}

	if e.search.index < 0 {
		e.search.index = nearestMatchIndex(e.search.matches, e.View.CursorRow, e.View.CursorCol, delta)
	} else {
		e.search.index = (e.search.index + delta + len(e.search.matches)) % len(e.search.matches)
	}

	ref := e.search.matches[e.search.index]
	e.View.MoveTo(ref.Row, ref.Col)
	e.View.ScrollToCursor()
	return statusOutcome("[" + strconv.Itoa(e.search.index+1) + "/" + strconv.Itoa(len(e.search.matches)) + "] matches")
}

// nearestMatchIndex finds the first match strictly after (row, col) in
// row-major order when delta > 0, or strictly before when delta < 0,
// wrapping to the first/last match if none qualifies.
func nearestMatchIndex(matches []table.CellRef, row, col int, delta int) int {
	cur := table.CellRef{Row: row, Col: col}
	if delta > 0 {
		for i, m := range matches {
			if after(m, cur) {
				return i
			}
		}
		return 0
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if after(cur, matches[i]) {
			return i
		}
	}
	return len(matches) - 1
}

func after(a, b table.CellRef) bool {
	if a.Row != b.Row {
		return a.Row > b.Row
	}
	return a.Col > b.Col
}
