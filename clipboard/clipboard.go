// Package clipboard implements the vim-style register model: named,
// unnamed, yank, black-hole, and system registers, each carrying a paste
// anchor that determines how pasted geometry aligns with the cursor.
package clipboard

import "github.com/pkg/errors"

// Anchor dictates paste geometry for a register's content.
type Anchor int

const (
	// AnchorCursor starts the paste at (cursor_row, cursor_col).
	AnchorCursor Anchor = iota
	// AnchorRowStart starts the paste at (cursor_row, 0).
	AnchorRowStart
	// AnchorColStart starts the paste at (0, cursor_col).
	AnchorColStart
)

// Content is what a register holds.
type Content struct {
	Data   [][]string
	Anchor Anchor
}

const (
	unnamedReg   = '"'
	yankReg      = '0'
	blackHoleReg = '_'
	systemReg    = '+'
)

// SystemBridge reaches the host clipboard. The unix implementation
// shells out to wl-copy/xclip/xsel in priority order.
type SystemBridge interface {
	Write(text string) error
	Read() (string, error)
}

// Registers holds every register's content plus the pending
// register selection for the next yank/delete/paste.
type Registers struct {
	contents map[byte]Content
	pending  byte
	system   SystemBridge
}

// NewRegisters returns an empty register set bound to a system clipboard
// bridge (use NewSystemBridge for the real platform bridge, or nil to
// disable the "+" register).
func NewRegisters(system SystemBridge) *Registers {
	return &Registers{contents: make(map[byte]Content), system: system}
}

// SelectRegister sets the pending register for the next yank/delete/paste.
// Uppercase letters are folded to lowercase.
func (r *Registers) SelectRegister(c byte) {
	r.pending = normalize(c)
}

func normalize(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// takePending returns the selected register, defaulting to unnamed,
// and clears the pending selection (it applies to exactly one action).
func (r *Registers) takePending() byte {
	c := r.pending
	if c == 0 {
		c = unnamedReg
	}
	r.pending = 0
	return c
}

// Yank writes content to the selected register, the unnamed register,
// and (when isYank is true) the yank register "0".
func (r *Registers) Yank(content Content, isYank bool) {
	reg := r.takePending()
	if reg == blackHoleReg {
		return
	}
	r.write(reg, content)
	if reg != unnamedReg {
		r.write(unnamedReg, content)
	}
	if isYank && reg != yankReg {
		r.write(yankReg, content)
	}
}

// Delete writes content to the selected register and the unnamed
// register, but never to the yank register, preserving the last yank.
func (r *Registers) Delete(content Content) {
	reg := r.takePending()
	if reg == blackHoleReg {
		return
	}
	r.write(reg, content)
	if reg != unnamedReg {
		r.write(unnamedReg, content)
	}
}

func (r *Registers) write(reg byte, content Content) {
	if reg == systemReg {
		if r.system == nil {
			return
		}
		_ = r.system.Write(flatten(content.Data))
		return
	}
	r.contents[reg] = content
}

// Get returns the content that would be pasted from the currently
// pending register (or unnamed, if none is pending), consuming the
// pending selection.
func (r *Registers) Get() (Content, error) {
	reg := r.takePending()
	if reg == systemReg {
		if r.system == nil {
			return Content{}, errors.New("no clipboard tool found (install xclip or wl-copy)")
		}
		text, err := r.system.Read()
		if err != nil {
			return Content{}, err
		}
		return Content{Data: [][]string{{text}}, Anchor: AnchorCursor}, nil
	}
	return r.contents[reg], nil
}

func flatten(data [][]string) string {
	out := ""
	for i, row := range data {
		if i > 0 {
			out += "\n"
		}
		for j, cell := range row {
			if j > 0 {
				out += "\t"
			}
			out += cell
		}
	}
	return out
}
