package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// IdleTimeout resets the key buffer if no key arrives within this long.
const IdleTimeout = time.Second

// ResultKind distinguishes what the buffer did with the latest key.
type ResultKind int

const (
	// ResultPending means the buffer absorbed the key and could still
	// extend into a recognized sequence.
	ResultPending ResultKind = iota
	// ResultAction means a sequence fired.
	ResultAction
	// ResultFallthrough means no sequence matched; the mode handler
	// should process the key (and any parsed count) itself.
	ResultFallthrough
)

// Result is what processing one key event produced.
type Result struct {
	Kind     ResultKind
	Name     string // set when Kind == ResultAction
	Count    int    // parsed count prefix, defaulting to 1
	Register byte   // selected register, 0 if none was given
	Event    *tcell.EventKey
}

// Buffer accumulates keys toward a named multi-key sequence.
type Buffer struct {
	sequences   []Sequence
	countDigits []rune
	register    byte
	awaitingReg bool
	pending     []*tcell.EventKey
	lastEvent   time.Time
	timeout     time.Duration
}

// NewBuffer constructs a key buffer matched against the given sequence
// table.
func NewBuffer(sequences []Sequence) *Buffer {
	return &Buffer{sequences: sequences, timeout: IdleTimeout}
}

// SetTimeout overrides the buffer's idle timeout (§4.7 rule 3),
// e.g. from a loaded configuration's idleTimeoutMs.
func (b *Buffer) SetTimeout(d time.Duration) { b.timeout = d }

func (b *Buffer) reset() {
	b.countDigits = nil
	b.register = 0
	b.awaitingReg = false
	b.pending = nil
}

// Process consumes one key event at time now and returns the result.
func (b *Buffer) Process(event *tcell.EventKey, now time.Time) Result {
	if (len(b.pending) > 0 || len(b.countDigits) > 0 || b.awaitingReg) && now.Sub(b.lastEvent) >= b.timeout {
		b.reset()
	}
	b.lastEvent = now

	if len(b.pending) == 0 && len(b.countDigits) == 0 && isDigit(event) && !isZeroDigit(event) {
		b.countDigits = append(b.countDigits, event.Rune())
		return Result{Kind: ResultPending}
	}
	if len(b.pending) == 0 && len(b.countDigits) > 0 && isDigit(event) {
		b.countDigits = append(b.countDigits, event.Rune())
		return Result{Kind: ResultPending}
	}

	if len(b.pending) == 0 && isQuote(event) && !b.awaitingReg {
		b.awaitingReg = true
		return Result{Kind: ResultPending}
	}
	if b.awaitingReg {
		b.awaitingReg = false
		if event.Key() == tcell.KeyRune {
			b.register = byte(event.Rune())
		}
		return Result{Kind: ResultPending}
	}

	b.pending = append(b.pending, event)

	var fullMatch *Sequence
	anyPrefixMatches := false
	for i := range b.sequences {
		seq := &b.sequences[i]
		if len(seq.Pattern) < len(b.pending) {
			continue
		}
		if !matchesPrefix(seq.Pattern, b.pending) {
			continue
		}
		anyPrefixMatches = true
		if len(seq.Pattern) == len(b.pending) {
			fullMatch = seq
			break
		}
	}

	if fullMatch != nil {
		count := b.count()
		reg := b.register
		name := fullMatch.Name
		b.reset()
		return Result{Kind: ResultAction, Name: name, Count: count, Register: reg}
	}
	if anyPrefixMatches {
		return Result{Kind: ResultPending}
	}

	count := b.count()
	reg := b.register
	last := b.pending[len(b.pending)-1]
	b.reset()
	return Result{Kind: ResultFallthrough, Count: count, Register: reg, Event: last}
}

func (b *Buffer) count() int {
	if len(b.countDigits) == 0 {
		return 1
	}
	n := 0
	for _, d := range b.countDigits {
		n = n*10 + int(d-'0')
	}
	if n < 1 {
		n = 1
	}
	return n
}

func matchesPrefix(pattern []Matcher, pending []*tcell.EventKey) bool {
	for i, ev := range pending {
		if !pattern[i].Matches(ev) {
			return false
		}
	}
	return true
}

func isDigit(event *tcell.EventKey) bool {
	return event.Key() == tcell.KeyRune && event.Rune() >= '0' && event.Rune() <= '9'
}

func isZeroDigit(event *tcell.EventKey) bool {
	return event.Key() == tcell.KeyRune && event.Rune() == '0'
}

func isQuote(event *tcell.EventKey) bool {
	return event.Key() == tcell.KeyRune && event.Rune() == '"'
}
