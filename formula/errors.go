package formula

import "fmt"

// CircularReferenceError is returned when evaluation detects a formula
// cell that depends (directly or transitively) on itself.
type CircularReferenceError struct {
	CellName string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected at %s", e.CellName)
}

// InvalidReferenceError is returned when a formula references a cell
// outside the table bounds.
type InvalidReferenceError struct {
	CellName string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference %s", e.CellName)
}

// EvalError wraps any other evaluation failure (unparsable operand,
// wrong argument count, unknown function, non-numeric comparison, etc).
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string {
	return e.Message
}

func evalErrorf(format string, args ...interface{}) error {
	return &EvalError{Message: fmt.Sprintf(format, args...)}
}
