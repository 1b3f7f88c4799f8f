package formula

import (
	"strconv"
	"strings"

	"github.com/msheldon32/tabular-sub000/numparse"
	"github.com/msheldon32/tabular-sub000/table"
)

// Store is the minimal read surface the formula engine needs from a
// table. table.Table satisfies this directly.
type Store interface {
	Get(row, col int) (string, bool)
	NumRows() int
	NumCols() int
}

// Update is a single formula result ready to be applied to the table.
type Update struct {
	Row  int
	Col  int
	Text string
}

// Engine finds and evaluates every formula cell in a Store.
type Engine struct {
	store   Store
	parsed  map[table.CellRef]Expr
	cache   map[table.CellRef]float64
	onStack map[table.CellRef]bool
	done    map[table.CellRef]bool
}

// NewEngine constructs an engine bound to a store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Evaluate locates every formula cell (text starting with '='), parses
// it, and evaluates all of them in dependency order. On success it
// returns the full batch of (row, col, formatted value) updates. On any
// parse or evaluation failure, it returns the error and no updates —
// calc is all-or-nothing.
func (e *Engine) Evaluate() ([]Update, error) {
	e.parsed = make(map[table.CellRef]Expr)
	e.cache = make(map[table.CellRef]float64)
	e.onStack = make(map[table.CellRef]bool)
	e.done = make(map[table.CellRef]bool)

	var cells []table.CellRef
	for r := 0; r < e.store.NumRows(); r++ {
		for c := 0; c < e.store.NumCols(); c++ {
			text, _ := e.store.Get(r, c)
			if !isFormulaText(text) {
				continue
			}
			expr, err := Parse(text)
			if err != nil {
				return nil, err
			}
			ref := table.CellRef{Row: r, Col: c}
			e.parsed[ref] = expr
			cells = append(cells, ref)
		}
	}

	for _, ref := range cells {
		if _, err := e.evalFormulaCell(ref); err != nil {
			return nil, err
		}
	}

	updates := make([]Update, 0, len(cells))
	for _, ref := range cells {
		updates = append(updates, Update{
			Row:  ref.Row,
			Col:  ref.Col,
			Text: numparse.FormatValue(e.cache[ref]),
		})
	}
	return updates, nil
}

func isFormulaText(s string) bool {
	return strings.HasPrefix(s, "=")
}

// evalFormulaCell evaluates (with memoization) the formula at ref,
// performing a DFS over formula-to-formula dependency edges. Encountering
// a cell already on the recursion stack is a circular reference.
func (e *Engine) evalFormulaCell(ref table.CellRef) (float64, error) {
	if e.done[ref] {
		return e.cache[ref], nil
	}
	if e.onStack[ref] {
		return 0, &CircularReferenceError{CellName: cellName(ref)}
	}
	expr, ok := e.parsed[ref]
	if !ok {
		// Not a formula cell; shouldn't be reached via resolveCell, but
		// guard defensively.
		return e.resolveNonFormulaCell(ref)
	}

	e.onStack[ref] = true
	v, err := e.evalExpr(expr)
	delete(e.onStack, ref)
	if err != nil {
		return 0, err
	}
	f, err := v.asNum()
	if err != nil {
		return 0, err
	}
	e.cache[ref] = f
	e.done[ref] = true
	return f, nil
}

func (e *Engine) resolveNonFormulaCell(ref table.CellRef) (float64, error) {
	text, ok := e.store.Get(ref.Row, ref.Col)
	if !ok {
		return 0, &InvalidReferenceError{CellName: cellName(ref)}
	}
	if text == "" {
		return 0, nil
	}
	v, ok := numparse.Parse(text)
	if !ok {
		return 0, evalErrorf("cannot evaluate non-numeric cell %s", cellName(ref))
	}
	return v, nil
}

// resolveCellValue evaluates the cell at ref: recursing through the
// formula dependency graph if it is itself a formula, or parsing its
// literal text otherwise.
func (e *Engine) resolveCellValue(row, col int) (float64, error) {
	if row < 0 || col < 0 || row >= e.store.NumRows() || col >= e.store.NumCols() {
		return 0, &InvalidReferenceError{CellName: cellName(table.CellRef{Row: row, Col: col})}
	}
	ref := table.CellRef{Row: row, Col: col}
	if _, ok := e.parsed[ref]; ok {
		return e.evalFormulaCell(ref)
	}
	return e.resolveNonFormulaCell(ref)
}

func cellName(ref table.CellRef) string {
	return table.ColumnLetters(ref.Col) + strconv.Itoa(ref.Row+1)
}

func refToRowCol(ref Ref) (row, col int) {
	return ref.Row - 1, table.ColumnFromLetters(strings.ToUpper(ref.Col))
}

// collectRange returns every (row,col) cell position covered by a Range,
// RowRange, or ColRange node, given the store's dimensions.
func (e *Engine) collectRange(expr Expr) ([][2]int, error) {
	switch r := expr.(type) {
	case Range:
		r1, c1 := refToRowCol(r.Start)
		r2, c2 := refToRowCol(r.End)
		return rectCells(minInt(r1, r2), maxInt(r1, r2), minInt(c1, c2), maxInt(c1, c2)), nil
	case RowRange:
		start, end := r.Start-1, r.End-1
		return rectCells(minInt(start, end), maxInt(start, end), 0, e.store.NumCols()-1), nil
	case ColRange:
		start := table.ColumnFromLetters(strings.ToUpper(r.Start))
		end := table.ColumnFromLetters(strings.ToUpper(r.End))
		return rectCells(0, e.store.NumRows()-1, minInt(start, end), maxInt(start, end)), nil
	case Ref:
		row, col := refToRowCol(r)
		return [][2]int{{row, col}}, nil
	default:
		return nil, evalErrorf("expected a cell range argument")
	}
}

func rectCells(r1, r2, c1, c2 int) [][2]int {
	if r1 < 0 {
		r1 = 0
	}
	if c1 < 0 {
		c1 = 0
	}
	var out [][2]int
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			out = append(out, [2]int{r, c})
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// collectRangeValues resolves every cell covered by a range expression
// into a slice of float64 values, in row-major iteration order.
func (e *Engine) collectRangeValues(expr Expr) ([]float64, error) {
	cells, err := e.collectRange(expr)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, 0, len(cells))
	for _, rc := range cells {
		v, err := e.resolveCellValue(rc[0], rc[1])
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ExtractDependencies returns every CellRef that a formula expression
// reads, expanding ranges on demand. It is exposed for callers (e.g. a
// UI highlighting precedents) independent of full evaluation.
func ExtractDependencies(expr Expr, numRows, numCols int) []table.CellRef {
	store := fixedSizeStore{rows: numRows, cols: numCols}
	e := NewEngine(store)
	var refs []table.CellRef
	walkRefs(expr, e, &refs)
	return refs
}

type fixedSizeStore struct {
	rows, cols int
}

func (f fixedSizeStore) Get(row, col int) (string, bool) {
	if row < 0 || col < 0 || row >= f.rows || col >= f.cols {
		return "", false
	}
	return "", true
}
func (f fixedSizeStore) NumRows() int { return f.rows }
func (f fixedSizeStore) NumCols() int { return f.cols }

func walkRefs(expr Expr, e *Engine, out *[]table.CellRef) {
	switch n := expr.(type) {
	case Ref:
		row, col := refToRowCol(n)
		*out = append(*out, table.CellRef{Row: row, Col: col})
	case Range, RowRange, ColRange:
		cells, err := e.collectRange(n)
		if err == nil {
			for _, rc := range cells {
				*out = append(*out, table.CellRef{Row: rc[0], Col: rc[1]})
			}
		}
	case BinOp:
		walkRefs(n.Left, e, out)
		walkRefs(n.Right, e, out)
	case Neg:
		walkRefs(n.Inner, e, out)
	case Not:
		walkRefs(n.Inner, e, out)
	case FnCall:
		for _, a := range n.Args {
			walkRefs(a, e, out)
		}
	}
}
