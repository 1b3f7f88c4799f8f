// Package background implements the cooperative offload protocol for
// large sorts and recalculations (C10): an atomic progress tracker plus
// a single-worker pipe the main thread polls once per render tick. The
// worker only computes a result — it never touches the shared table.
package background

import (
	"sync/atomic"

	"github.com/msheldon32/tabular-sub000/table"
)

// rowCountThreshold is the row count above which a sort or calc is
// large enough to warrant running on the background worker instead of
// the main thread (mirrors txn.IsLarge's estimated-size threshold).
const rowCountThreshold = 50000

// ShouldOffload reports whether an operation touching rowCount rows
// should run on the background worker rather than synchronously.
func ShouldOffload(rowCount int) bool {
	return rowCount >= rowCountThreshold
}

// Progress is a thread-safe counter plus an advisory cancellation flag.
// All fields are accessed through relaxed atomics: callers only ever
// observe it for display, never synchronize on it.
type Progress struct {
	current   int64
	total     int64
	cancelled int32
}

// NewProgress returns a tracker for an operation processing total items.
func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Set records the current item count.
func (p *Progress) Set(current int) { atomic.StoreInt64(&p.current, int64(current)) }

// Current returns the most recently recorded item count.
func (p *Progress) Current() int { return int(atomic.LoadInt64(&p.current)) }

// Total returns the operation's declared size.
func (p *Progress) Total() int { return int(atomic.LoadInt64(&p.total)) }

// Percent returns progress as 0-100; an operation with a zero total is
// reported as complete.
func (p *Progress) Percent() int {
	total := p.Total()
	if total == 0 {
		return 100
	}
	pct := p.Current() * 100 / total
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Cancel requests cancellation. The worker observes this cooperatively;
// it is not forced to stop.
func (p *Progress) Cancel() { atomic.StoreInt32(&p.cancelled, 1) }

// Cancelled reports whether Cancel has been called.
func (p *Progress) Cancelled() bool { return atomic.LoadInt32(&p.cancelled) != 0 }

// SortKind distinguishes the two offloadable sort directions.
type SortKind int

const (
	SortByRow SortKind = iota
	SortByCol
)

// SortResult is the message a sort worker sends back on completion. An
// empty Permutation (len 0, but Resolved true) means the input was
// already sorted -- the caller should print "already sorted" rather
// than executing a no-op transaction.
type SortResult struct {
	Kind        SortKind
	Permutation table.Permutation
	Resolved    bool
	Cancelled   bool
}

// CalcResult is the message a background recalculation worker sends
// back: either the full batch of formula updates or an error, mutually
// exclusive with Cancelled.
type CalcResult struct {
	Updates   []CellUpdate
	Err       error
	Cancelled bool
}

// CellUpdate is a (row, col, text) triple, independent of the formula
// package so background has no import cycle with it.
type CellUpdate struct {
	Row  int
	Col  int
	Text string
}

// Worker owns at most one in-flight background operation. The app
// never has more than one Worker active at a time (§5).
type Worker struct {
	progress *Progress
	sortCh   chan SortResult
	calcCh   chan CalcResult
}

// NewWorker returns an idle worker with no operation in flight.
func NewWorker() *Worker {
	return &Worker{}
}

// Busy reports whether an operation is currently running.
func (w *Worker) Busy() bool {
	return w.sortCh != nil || w.calcCh != nil
}

// Progress returns the progress tracker for the in-flight operation, or
// nil if none is running.
func (w *Worker) Progress() *Progress { return w.progress }

// StartSort launches a sort computation on a background goroutine. fn
// is expected to call table.Table.GetSortPermutation or
// GetColSortPermutation against a clone of the relevant column/row so
// the worker never touches the live table concurrently with the main
// thread; it reports (false) when the data was already sorted. total
// sizes the progress tracker (row or column count); the sort itself
// does not report incremental progress since table's sort helpers run
// as one batch, so the caller mainly observes Busy()/PollSort() to
// learn when the permutation is ready.
func (w *Worker) StartSort(kind SortKind, total int, fn func() (table.Permutation, bool)) {
	progress := NewProgress(total)
	ch := make(chan SortResult, 1)
	w.progress = progress
	w.sortCh = ch

	go func() {
		if progress.Cancelled() {
			ch <- SortResult{Cancelled: true}
			return
		}
		perm, ok := fn()
		progress.Set(total)
		if progress.Cancelled() {
			ch <- SortResult{Cancelled: true}
			return
		}
		if !ok {
			ch <- SortResult{Kind: kind, Resolved: true}
			return
		}
		ch <- SortResult{Kind: kind, Permutation: perm, Resolved: true}
	}()
}

// PollSort performs a non-blocking receive for a completed sort. The
// main thread never blocks on this call.
func (w *Worker) PollSort() (SortResult, bool) {
	if w.sortCh == nil {
		return SortResult{}, false
	}
	select {
	case res := <-w.sortCh:
		w.sortCh = nil
		w.progress = nil
		return res, true
	default:
		return SortResult{}, false
	}
}

// StartCalc launches a recalculation computing updates via evalFn,
// reporting progress against the number of formula cells found.
func (w *Worker) StartCalc(formulaCount int, evalFn func(progress *Progress) ([]CellUpdate, error)) {
	progress := NewProgress(formulaCount)
	ch := make(chan CalcResult, 1)
	w.progress = progress
	w.calcCh = ch

	go func() {
		if progress.Cancelled() {
			ch <- CalcResult{Cancelled: true}
			return
		}
		updates, err := evalFn(progress)
		if progress.Cancelled() {
			ch <- CalcResult{Cancelled: true}
			return
		}
		ch <- CalcResult{Updates: updates, Err: err}
	}()
}

// PollCalc performs a non-blocking receive for a completed calc.
func (w *Worker) PollCalc() (CalcResult, bool) {
	if w.calcCh == nil {
		return CalcResult{}, false
	}
	select {
	case res := <-w.calcCh:
		w.calcCh = nil
		w.progress = nil
		return res, true
	default:
		return CalcResult{}, false
	}
}

// Cancel requests cancellation of whatever operation is in flight, if
// any.
func (w *Worker) Cancel() {
	if w.progress != nil {
		w.progress.Cancel()
	}
}
