// Package input implements the modal input core: a key buffer with count
// prefixes, register-selection prefixes, a static sequence table, and an
// idle timeout, shared by every mode handler.
package input

import "github.com/gdamore/tcell/v2"

// Matcher matches a single key event. Wildcard matches any key; the
// register-selection prefix (`"<x>`) is consumed by Buffer itself, not
// by a Wildcard slot in a sequence.
type Matcher struct {
	Wildcard bool
	Key      tcell.Key
	Rune     rune
}

// Matches reports whether event satisfies this matcher.
func (m Matcher) Matches(event *tcell.EventKey) bool {
	if m.Wildcard {
		return true
	}
	if event.Key() != m.Key {
		return false
	}
	if event.Key() == tcell.KeyRune && event.Rune() != m.Rune {
		return false
	}
	return true
}

// Rune returns a literal-rune matcher.
func Rune(r rune) Matcher { return Matcher{Key: tcell.KeyRune, Rune: r} }

// Key returns a matcher for a named (non-rune) key.
func Key(k tcell.Key) Matcher { return Matcher{Key: k} }

// Any returns the wildcard matcher.
func Any() Matcher { return Matcher{Wildcard: true} }

// Sequence is one named entry in the static sequence table.
type Sequence struct {
	Name    string
	Pattern []Matcher
}
