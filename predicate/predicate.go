// Package predicate implements the composable filter-predicate tree used
// by the :filter command and by scoped substitute, evaluated against a
// single column classified as numeric or text.
package predicate

import (
	"strconv"
	"strings"

	"github.com/msheldon32/tabular-sub000/numparse"
)

// Op is a comparison operator applied between a cell's value and the
// predicate's literal.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// ParseOp maps the surface token to an Op, reporting false if unknown.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "=":
		return OpEq, true
	case "!":
		return OpNe, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGe, true
	default:
		return 0, false
	}
}

// Predicate evaluates a single cell's text against its column type.
type Predicate interface {
	Eval(cellText string, colType numparse.ColumnType) bool
}

// Leaf is a single comparison: <op> <value>.
type Leaf struct {
	Op    Op
	Value string
}

func (l Leaf) Eval(cellText string, colType numparse.ColumnType) bool {
	if colType == numparse.ColumnNumeric {
		lv, ok := numparse.Parse(cellText)
		if !ok {
			return false
		}
		rv, ok := numparse.Parse(l.Value)
		if !ok {
			return false
		}
		return compareOrdered(l.Op, numCmp(lv, rv))
	}

	lhs := strings.ToLower(strings.TrimSpace(cellText))
	rhs := strings.ToLower(strings.TrimSpace(l.Value))
	return compareOrdered(l.Op, strings.Compare(lhs, rhs))
}

func numCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(op Op, ord int) bool {
	switch op {
	case OpEq:
		return ord == 0
	case OpNe:
		return ord != 0
	case OpLt:
		return ord < 0
	case OpLe:
		return ord <= 0
	case OpGt:
		return ord > 0
	case OpGe:
		return ord >= 0
	}
	return false
}

// Not negates its operand.
type Not struct{ Inner Predicate }

func (n Not) Eval(cellText string, colType numparse.ColumnType) bool {
	return !n.Inner.Eval(cellText, colType)
}

// And requires both operands to hold.
type And struct{ Left, Right Predicate }

func (a And) Eval(cellText string, colType numparse.ColumnType) bool {
	return a.Left.Eval(cellText, colType) && a.Right.Eval(cellText, colType)
}

// Or requires either operand to hold.
type Or struct{ Left, Right Predicate }

func (o Or) Eval(cellText string, colType numparse.ColumnType) bool {
	return o.Left.Eval(cellText, colType) || o.Right.Eval(cellText, colType)
}

// String renders a predicate back to a short human label (e.g. "> 90"),
// which the :filter command prefixes with the column letters to build
// the row filter's label ("B > 90").
func String(p Predicate) string {
	switch n := p.(type) {
	case Leaf:
		return opSymbol(n.Op) + " " + n.Value
	case Not:
		return "NOT " + String(n.Inner)
	case And:
		return String(n.Left) + " AND " + String(n.Right)
	case Or:
		return String(n.Left) + " OR " + String(n.Right)
	default:
		return ""
	}
}

func opSymbol(op Op) string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	}
	return "?"
}

// ParseLeaf parses "<op> <value>" into a Leaf, the base case reused by
// the command parser when composing the full NOT/AND/OR tree.
func ParseLeaf(s string) (Leaf, bool) {
	s = strings.TrimSpace(s)
	for _, tok := range []string{"<=", ">=", "=", "!", "<", ">"} {
		if strings.HasPrefix(s, tok) {
			op, _ := ParseOp(tok)
			val := strings.TrimSpace(s[len(tok):])
			if val == "" {
				return Leaf{}, false
			}
			return Leaf{Op: op, Value: val}, true
		}
	}
	return Leaf{}, false
}

// MustParseInt is a small helper for callers building QUARTILE-style
// integer arguments out of predicate literals.
func MustParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
