// Package rowfilter implements the virtual row filter: a predicate-based
// live-row set maintained as both a sorted vector (ordered navigation)
// and a hash set (O(1) membership), matching the Row Manager contract.
package rowfilter

import (
	"sort"

	"github.com/msheldon32/tabular-sub000/numparse"
	"github.com/msheldon32/tabular-sub000/predicate"
	"github.com/msheldon32/tabular-sub000/table"
)

// State is the full, serializable Row Manager state, suitable for
// SetFilter transactions and undo/redo round-tripping.
type State struct {
	IsFiltered   bool
	ActiveRows   []int
	FilterString string
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	rows := make([]int, len(s.ActiveRows))
	copy(rows, s.ActiveRows)
	return State{IsFiltered: s.IsFiltered, ActiveRows: rows, FilterString: s.FilterString}
}

// Manager tracks the current live-row filter.
type Manager struct {
	state State
	set   map[int]struct{}
}

// NewManager returns an unfiltered manager.
func NewManager() *Manager {
	return &Manager{}
}

// IsRowLive reports whether row passes the current filter.
func (m *Manager) IsRowLive(row int) bool {
	if !m.state.IsFiltered {
		return true
	}
	_, ok := m.set[row]
	return ok
}

// GetSuccessor returns the next live row strictly greater than row.
func (m *Manager) GetSuccessor(row int, numRows int) (int, bool) {
	if !m.state.IsFiltered {
		if row+1 < numRows {
			return row + 1, true
		}
		return 0, false
	}
	rows := m.state.ActiveRows
	i := sort.SearchInts(rows, row+1)
	if i >= len(rows) {
		return 0, false
	}
	return rows[i], true
}

// GetPredecessor returns the previous live row strictly less than row.
func (m *Manager) GetPredecessor(row int) (int, bool) {
	if !m.state.IsFiltered {
		if row > 0 {
			return row - 1, true
		}
		return 0, false
	}
	rows := m.state.ActiveRows
	i := sort.SearchInts(rows, row)
	if i == 0 {
		return 0, false
	}
	return rows[i-1], true
}

// JumpDown advances n positions forward in the live set from start.
func (m *Manager) JumpDown(start, n, numRows int) int {
	cur := start
	for i := 0; i < n; i++ {
		next, ok := m.GetSuccessor(cur, numRows)
		if !ok {
			break
		}
		cur = next
	}
	return cur
}

// JumpUp advances n positions backward in the live set from start.
func (m *Manager) JumpUp(start, n int) int {
	cur := start
	for i := 0; i < n; i++ {
		prev, ok := m.GetPredecessor(cur)
		if !ok {
			break
		}
		cur = prev
	}
	return cur
}

// PredicateFilter applies pred over column col of t, composing with any
// already-active filter (restricting the live set further). When
// keepHeader is set, row 0 always survives regardless of pred.
func (m *Manager) PredicateFilter(t *table.Table, col int, pred predicate.Predicate, colType numparse.ColumnType, keepHeader bool, label string) {
	var candidates []int
	if m.state.IsFiltered {
		candidates = m.state.ActiveRows
	} else {
		candidates = make([]int, t.NumRows())
		for i := range candidates {
			candidates[i] = i
		}
	}

	kept := make([]int, 0, len(candidates))
	for _, row := range candidates {
		if keepHeader && row == 0 {
			kept = append(kept, row)
			continue
		}
		text, _ := t.Get(row, col)
		if pred.Eval(text, colType) {
			kept = append(kept, row)
		}
	}

	m.state = State{IsFiltered: true, ActiveRows: kept, FilterString: label}
	m.rebuildSet()
}

// RemoveFilter clears the current filter, restoring the unfiltered view.
func (m *Manager) RemoveFilter() {
	m.state = State{}
	m.set = nil
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	return m.state.Clone()
}

// Restore replaces the manager's state wholesale and rebuilds the hash
// set from the supplied sorted vector.
func (m *Manager) Restore(s State) {
	m.state = s.Clone()
	m.rebuildSet()
}

func (m *Manager) rebuildSet() {
	if !m.state.IsFiltered {
		m.set = nil
		return
	}
	m.set = make(map[int]struct{}, len(m.state.ActiveRows))
	for _, r := range m.state.ActiveRows {
		m.set[r] = struct{}{}
	}
}

// IsFiltered reports whether a filter is currently active.
func (m *Manager) IsFiltered() bool { return m.state.IsFiltered }

// FilterString returns the current human-readable filter label.
func (m *Manager) FilterString() string { return m.state.FilterString }

// ActiveRowCount returns the number of live rows, or -1 if unfiltered.
func (m *Manager) ActiveRowCount() int {
	if !m.state.IsFiltered {
		return -1
	}
	return len(m.state.ActiveRows)
}
