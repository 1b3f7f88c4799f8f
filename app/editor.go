// Package app wires the table store, transaction engine, row filter,
// clipboard, view state, mode handlers, command parser, and background
// worker into the top-level event loop (C12), and owns everything those
// packages explicitly leave to an external collaborator: the CLI
// surface (§6.1), the delimited-file boundary (§6.5), and terminal
// rendering.
package app

import (
	"log"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/msheldon32/tabular-sub000/background"
	"github.com/msheldon32/tabular-sub000/clipboard"
	"github.com/msheldon32/tabular-sub000/config"
	"github.com/msheldon32/tabular-sub000/fileio"
	"github.com/msheldon32/tabular-sub000/formula"
	"github.com/msheldon32/tabular-sub000/modes"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/msheldon32/tabular-sub000/txn"
)

// Editor is the top-level spreadsheet session: a screen, a bound file,
// and the modes.Editor that owns every mutable subsystem named in §3.
type Editor struct {
	screen tcell.Screen
	file   fileio.IO
	cfg    config.Config

	ed     *modes.Editor
	worker *background.Worker

	status  string
	dirty   bool
	showGrid bool

	termEventChan chan tcell.Event
	quit          bool
}

// NewEditor loads path (via fileio) into a fresh table and constructs
// the editor bound to screen. A missing path or file produces a blank
// starter grid rather than failing, mirroring how a terminal editor
// opens a name that doesn't exist yet.
func NewEditor(screen tcell.Screen, path string, delim rune, readOnly bool, cfg config.Config) (*Editor, error) {
	if delim == 0 && cfg.Delimiter != "" {
		delim = []rune(cfg.Delimiter)[0]
	}
	log.Printf("opening %q\n", effectivePath(path))
	io := fileio.New(path, delim, readOnly)
	loaded, err := io.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", path)
	}
	for _, w := range loaded.Warnings {
		log.Printf("load warning: %s\n", w)
	}

	t := table.NewFromRows(loaded.Rows)
	width, height := screen.Size()
	viewportHeight := height - 2 // status line + command line
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	ed := modes.New(t, viewportHeight, width, clipboard.NewSystemBridge())
	ed.HasHeader = cfg.HasHeader
	if cfg.Precision != config.DefaultPrecision {
		p := cfg.Precision
		ed.Precision = &p
	}
	if cfg.IdleTimeoutMs > 0 {
		ed.SetIdleTimeout(time.Duration(cfg.IdleTimeoutMs) * time.Millisecond)
	}

	e := &Editor{
		screen:        screen,
		file:          io,
		cfg:           cfg,
		ed:            ed,
		worker:        background.NewWorker(),
		showGrid:      cfg.ShowRowNumbers,
		termEventChan: make(chan tcell.Event, 1),
	}
	if len(loaded.Warnings) > 0 {
		e.status = loaded.Warnings[0]
	}
	return e, nil
}

// ConfigPath mirrors app.ConfigPath() in the ambient editor this one is
// modeled on: the location :editconfig or -editconfig would open.
func ConfigPath() (string, error) { return config.Path() }

// RunEventLoop draws the initial frame, starts the terminal event
// pump, and blocks processing events until the user quits.
func (e *Editor) RunEventLoop() {
	e.draw()
	e.screen.Sync()

	go e.pollTermEvents()

	for !e.quit {
		select {
		case event := <-e.termEventChan:
			e.handleTermEvent(event)
		case <-time.After(16 * time.Millisecond):
			// render tick: poll the background worker even with no
			// terminal input, per §4.10 step 4.
		}
		e.pollWorker()
		e.draw()
	}
}

func (e *Editor) pollTermEvents() {
	for {
		event := e.screen.PollEvent()
		if event == nil {
			return
		}
		e.termEventChan <- event
	}
}

func (e *Editor) handleTermEvent(event tcell.Event) {
	switch ev := event.(type) {
	case *tcell.EventResize:
		width, height := ev.Size()
		e.ed.View.ViewportWidth = width
		e.ed.View.ViewportHeight = height - 2
		e.screen.Sync()
	case *tcell.EventKey:
		e.handleKeyEvent(ev)
	}
}

func (e *Editor) handleKeyEvent(ev *tcell.EventKey) {
	if e.worker.Busy() {
		// A background sort/calc owns the table's read surface until it
		// reports back; block further mutation but still allow Ctrl-C
		// to request cancellation.
		if ev.Key() == tcell.KeyCtrlC {
			e.worker.Cancel()
			e.status = "cancelling..."
		}
		return
	}

	depthBefore := e.ed.History.UndoDepth()
	outcome := e.ed.HandleKey(ev, time.Now())
	if e.ed.History.UndoDepth() != depthBefore {
		e.dirty = true
	}
	e.applyOutcome(outcome)
}

func (e *Editor) applyOutcome(o modes.Outcome) {
	if o.Status != "" {
		e.status = o.Status
	}
	if o.Quit || o.WriteThen {
		e.handleQuit(o)
		return
	}
	if o.Write {
		e.handleWrite()
	}
	if o.Fork {
		e.handleFork()
	}
	if o.Clip {
		e.handleClipYank()
	}
	if o.SysPaste {
		e.handleSysPaste()
	}
	if o.RequestCalc {
		e.handleCalc()
	}
	if o.RequestSort != nil {
		e.handleSort(o.RequestSort)
	}
	if o.ApplyPrecision {
		e.ed.ApplyDisplayPrecision()
	}
	if o.ToggleGrid {
		e.showGrid = !e.showGrid
	}
	if o.ThemeName != "" {
		log.Printf("theme change requested: %s (rendering is an external collaborator)\n", o.ThemeName)
	}
	if o.ListThemes || o.ListPlugin {
		log.Printf("listing requested; nothing to list without a plugin host attached\n")
	}
	if o.Custom != nil {
		e.status = "unknown command: " + o.Custom.Name
	}
}

func (e *Editor) handleQuit(o modes.Outcome) {
	if o.WriteThen {
		if err := e.writeFile(); err != nil {
			e.status = err.Error()
			return
		}
		e.quit = true
		return
	}
	if o.Force || !e.dirty {
		e.quit = true
		return
	}
	e.status = "Unsaved changes! Use :q! to force quit"
}

func (e *Editor) handleWrite() {
	if err := e.writeFile(); err != nil {
		e.status = err.Error()
		return
	}
	e.status = "written"
}

func (e *Editor) writeFile() error {
	rows := e.ed.Table.GetRowsCloned(0, e.ed.Table.NumRows())
	if err := e.file.Write(rows); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

func (e *Editor) handleFork() {
	forked := e.file.Fork()
	e.file = forked
	e.status = "forked to " + forked.Path
}

// ForkOnLoad implements the -f/--fork CLI flag (§6.1): rebind to a fork
// filename before any edit happens, so the source file is never at
// risk of being overwritten by this session.
func (e *Editor) ForkOnLoad() { e.handleFork() }

func (e *Editor) handleClipYank() {
	row, col := e.ed.View.CursorRow, e.ed.View.CursorCol
	text, _ := e.ed.Table.Get(row, col)
	e.ed.Clip.SelectRegister('+')
	e.ed.Clip.Yank(clipboard.Content{Data: [][]string{{text}}, Anchor: clipboard.AnchorCursor}, true)
	e.status = "copied to system clipboard"
}

func (e *Editor) handleSysPaste() {
	e.ed.Clip.SelectRegister('+')
	content, err := e.ed.Clip.Get()
	if err != nil {
		e.status = err.Error()
		return
	}
	if len(content.Data) == 0 || len(content.Data[0]) == 0 {
		e.status = "system clipboard is empty"
		return
	}
	row, col := e.ed.View.CursorRow, e.ed.View.CursorCol
	rows, cols := len(content.Data), len(content.Data[0])
	old := e.ed.Table.GetSpan(row, row+rows, col, col+cols)
	e.ed.History.Record(e.ed.Table, txn.SetSpan{Row: row, Col: col, OldData: old, NewData: content.Data})
	e.dirty = true
	e.status = "pasted from system clipboard"
}

// handleCalc recalculates every formula cell, synchronously for small
// tables or via the background worker for large ones (§4.10).
func (e *Editor) handleCalc() {
	formulaCount := e.countFormulaCells()
	if !background.ShouldOffload(formulaCount * 50) {
		updates, err := formula.NewEngine(e.ed.Table).Evaluate()
		if err != nil {
			e.status = err.Error()
			return
		}
		e.ed.ApplyCalcUpdates(updates)
		e.dirty = true
		e.status = statusForCalc(len(updates))
		return
	}

	e.worker.StartCalc(formulaCount, func(progress *background.Progress) ([]background.CellUpdate, error) {
		updates, err := formula.NewEngine(e.ed.Table).Evaluate()
		progress.Set(formulaCount)
		if err != nil {
			return nil, err
		}
		out := make([]background.CellUpdate, len(updates))
		for i, u := range updates {
			out[i] = background.CellUpdate{Row: u.Row, Col: u.Col, Text: u.Text}
		}
		return out, nil
	})
	e.status = "calculating..."
}

func (e *Editor) countFormulaCells() int {
	n := 0
	for r := 0; r < e.ed.Table.NumRows(); r++ {
		for c := 0; c < e.ed.Table.NumCols(); c++ {
			text, _ := e.ed.Table.Get(r, c)
			if len(text) > 0 && text[0] == '=' {
				n++
			}
		}
	}
	return n
}

func statusForCalc(n int) string {
	return "Evaluated " + strconv.Itoa(n) + " formula(s)"
}

// handleSort always launches a background sort against a cloned
// column/row, never the live table, per §9's background-sort-ownership
// note; it has no synchronous path.
func (e *Editor) handleSort(req *modes.SortRequest) {
	if req.ByRow {
		total := e.ed.Table.NumCols()
		data := e.ed.Table.CloneRow(req.Index)
		e.worker.StartSort(background.SortByCol, total, func() (table.Permutation, bool) {
			return table.SortPermutationFromColumn(data, req.Dir, req.SkipHeader)
		})
	} else {
		total := e.ed.Table.NumRows()
		data := e.ed.Table.CloneColumn(req.Index)
		e.worker.StartSort(background.SortByRow, total, func() (table.Permutation, bool) {
			return table.SortPermutationFromColumn(data, req.Dir, req.SkipHeader)
		})
	}
	e.status = "sorting..."
}

// pollWorker drains any completed background operation exactly once per
// render tick (§4.10 step 4), applying the result through the normal
// history pathway.
func (e *Editor) pollWorker() {
	if res, ok := e.worker.PollSort(); ok {
		if res.Cancelled {
			e.status = "sort cancelled"
			return
		}
		if !res.Resolved || len(res.Permutation) == 0 {
			e.status = "already sorted"
			return
		}
		if res.Kind == background.SortByRow {
			e.ed.ApplyRowPermutation(res.Permutation)
		} else {
			e.ed.ApplyColPermutation(res.Permutation)
		}
		e.dirty = true
		e.status = "sorted"
	}
	if res, ok := e.worker.PollCalc(); ok {
		if res.Cancelled {
			e.status = "calc cancelled"
			return
		}
		if res.Err != nil {
			e.status = res.Err.Error()
			return
		}
		updates := make([]formula.Update, len(res.Updates))
		for i, u := range res.Updates {
			updates[i] = formula.Update{Row: u.Row, Col: u.Col, Text: u.Text}
		}
		e.ed.ApplyCalcUpdates(updates)
		e.dirty = true
		e.status = statusForCalc(len(updates))
	}
}

// effectivePath resolves a user-supplied path argument to an absolute
// path for logging, mirroring app.effectivePath in the ambient editor
// this one is modeled on.
func effectivePath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		log.Printf("filepath.Abs(%q): %v\n", path, err)
		return path
	}
	return abs
}

// ParseDelimiter maps the CLI's -d/--delimiter value to a rune, per
// §6.1: "comma | tab | semicolon | pipe | single char". An empty value
// (no flag given) maps to 0, leaving the choice to the configuration or
// the file extension.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "comma":
		return ',', nil
	case "tab":
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	r := []rune(s)
	if len(r) == 1 {
		return r[0], nil
	}
	return 0, errors.Errorf("invalid delimiter %q", s)
}

