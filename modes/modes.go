// Package modes implements the modal key handlers (C8): Normal, Insert,
// Visual{Cell,Row,Col}, Command, and Search, wired together over the
// table, view, clipboard, row filter, and undo history packages. Each
// mode owns its own input.Buffer so multi-key sequences and count
// prefixes never leak across a mode switch.
package modes

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/msheldon32/tabular-sub000/clipboard"
	"github.com/msheldon32/tabular-sub000/command"
	"github.com/msheldon32/tabular-sub000/input"
	"github.com/msheldon32/tabular-sub000/rowfilter"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/msheldon32/tabular-sub000/txn"
	"github.com/msheldon32/tabular-sub000/view"
)

// Mode names the seven interaction states a key event can land in.
type Mode int

const (
	Normal Mode = iota
	Insert
	VisualCell
	VisualRow
	VisualCol
	Command
	Search
)

// Outcome reports what a single HandleKey call produced, for the app
// loop to act on: a status line to show, and any request that reaches
// beyond table editing into file I/O, the process lifecycle, or
// terminal theming.
type Outcome struct {
	Status string

	Quit      bool
	Force     bool
	WriteThen bool // write, then quit, regardless of Force

	Write    bool
	Fork     bool
	SysPaste bool
	Clip     bool

	ThemeName  string
	ListThemes bool
	ListPlugin bool
	ToggleGrid bool

	RequestCalc    bool
	RequestSort    *SortRequest
	ApplyPrecision bool

	Custom *command.Custom
}

// SortRequest asks the app loop to compute a sort permutation on the
// background worker (table.SortPermutationFromColumn against a cloned
// column/row) rather than on the main thread, because the axis being
// sorted is large enough to make that latency worth hiding.
type SortRequest struct {
	ByRow bool // false: sorting rows by a column's values; true: the column-axis analogue
	Index int  // column index (ByRow==false) or row index (ByRow==true)
	Dir   table.SortDirection
	SkipHeader bool
}

// Editor bundles every piece of shared state a mode handler touches.
// It owns no terminal or file I/O; the app package wires those in.
type Editor struct {
	Table   *table.Table
	View    *view.State
	Filter  *rowfilter.Manager
	Clip    *clipboard.Registers
	History *txn.History

	HasHeader bool
	Precision *int

	mode    Mode
	normal  *input.Buffer
	visual  *input.Buffer
	insert  insertState
	cmdline []rune
	search  searchState

	lastNormalCount int
}

// New constructs an Editor positioned at the origin of t, with a fresh
// (empty) undo history and no active filter.
func New(t *table.Table, viewportH, viewportW int, system clipboard.SystemBridge) *Editor {
	return &Editor{
		Table:     t,
		View:      view.New(viewportH, viewportW),
		Filter:    rowfilter.NewManager(),
		Clip:      clipboard.NewRegisters(system),
		History:   txn.NewHistory(),
		HasHeader: true,
		normal:    input.NewBuffer(normalSequences),
		visual:    input.NewBuffer(visualSequences),
	}
}

// Mode returns the current interaction mode.
func (e *Editor) Mode() Mode { return e.mode }

// SetIdleTimeout overrides the key-buffer idle timeout (§4.7 rule 3)
// shared by every mode's sequence buffer.
func (e *Editor) SetIdleTimeout(d time.Duration) {
	e.normal.SetTimeout(d)
	if e.visual != nil {
		e.visual.SetTimeout(d)
	}
}

// CommandLineText returns the in-progress ":" command buffer, for the
// renderer to draw while in Command mode.
func (e *Editor) CommandLineText() string { return string(e.cmdline) }

// InsertLineText returns the in-progress cell edit buffer and its
// character-indexed cursor position, for the renderer to draw while in
// Insert mode.
func (e *Editor) InsertLineText() (string, int) {
	return string(e.insert.buffer), e.insert.cursorIdx
}

// SearchQueryText returns the in-progress "/" search buffer, for the
// renderer to draw while in Search mode.
func (e *Editor) SearchQueryText() string { return e.search.pattern }

// HandleKey routes one key event to the current mode's handler.
func (e *Editor) HandleKey(event *tcell.EventKey, now time.Time) Outcome {
	switch e.mode {
	case Normal:
		return e.handleNormal(event, now)
	case Insert:
		return e.handleInsert(event)
	case VisualCell, VisualRow, VisualCol:
		return e.handleVisual(event, now)
	case Command:
		return e.handleCommand(event)
	case Search:
		return e.handleSearch(event)
	default:
		return Outcome{}
	}
}

// record applies t to the table through the undo history.
func (e *Editor) record(t txn.Transaction) {
	e.History.Record(e.Table, t)
}

// clampCursor pulls the cursor back inside table bounds after a
// structural edit shrinks the grid.
func (e *Editor) clampCursor() {
	if r := e.Table.NumRows() - 1; e.View.CursorRow > r {
		e.View.CursorRow = r
	}
	if e.View.CursorRow < 0 {
		e.View.CursorRow = 0
	}
	if c := e.Table.NumCols() - 1; e.View.CursorCol > c {
		e.View.CursorCol = c
	}
	if e.View.CursorCol < 0 {
		e.View.CursorCol = 0
	}
	e.View.ScrollToCursor()
}

func statusOutcome(s string) Outcome { return Outcome{Status: s} }
