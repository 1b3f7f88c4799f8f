package txn

import "github.com/msheldon32/tabular-sub000/table"

// maxHistoryDepth bounds the undo/redo stacks; beyond this the oldest
// entries are evicted.
const maxHistoryDepth = 1000

// History is the linear undo/redo engine: two stacks of transactions,
// most recent last.
type History struct {
	undo []Transaction
	redo []Transaction
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Record applies transaction to t, pushes its inverse onto the undo
// stack (so Undo never needs to re-derive it), and clears the redo
// stack.
func (h *History) Record(t *table.Table, transaction Transaction) {
	inverse := transaction.Apply(t)
	h.undo = append(h.undo, inverse)
	if len(h.undo) > maxHistoryDepth {
		h.undo = h.undo[len(h.undo)-maxHistoryDepth:]
	}
	h.redo = nil
}

// Undo applies the most recently recorded transaction's inverse to t and
// pushes its own inverse onto the redo stack. ok is false if there is
// nothing to undo.
func (h *History) Undo(t *table.Table) (applied Transaction, ok bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	inverse := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	redoEntry := inverse.Apply(t)
	h.redo = append(h.redo, redoEntry)
	return inverse, true
}

// Redo re-applies the most recently undone transaction to t and pushes
// its inverse back onto the undo stack. ok is false if there is nothing
// to redo.
func (h *History) Redo(t *table.Table) (applied Transaction, ok bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	forward := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	undoEntry := forward.Apply(t)
	h.undo = append(h.undo, undoEntry)
	return forward, true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// UndoDepth returns the number of recorded transactions available to
// undo. Callers use a change in this count (rather than CanUndo, which
// saturates at the first transaction) to detect that a mutation just
// happened, e.g. to mark a document dirty.
func (h *History) UndoDepth() int { return len(h.undo) }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
