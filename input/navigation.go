package input

import "github.com/gdamore/tcell/v2"

// NavKey identifies a recognized single-key (or Ctrl-modified) motion.
type NavKey int

const (
	NavNone NavKey = iota
	NavLeft
	NavDown
	NavUp
	NavRight
	NavLineStart   // 0
	NavFirstOccupied // ^
	NavLineEnd     // $
	NavLastRow     // G
	NavHalfPageDown  // Ctrl-D
	NavHalfPageUp    // Ctrl-U
	NavPageDown      // Ctrl-F
	NavPageUp        // Ctrl-B
	NavJumpLeft      // Ctrl-Left / Ctrl-h
	NavJumpDown      // Ctrl-Down / Ctrl-j
	NavJumpUp        // Ctrl-Up / Ctrl-k
	NavJumpRight     // Ctrl-Right / Ctrl-l
)

// ClassifyNav maps a raw key event to a NavKey, or NavNone if it is not
// a recognized navigation key.
func ClassifyNav(event *tcell.EventKey) NavKey {
	mod := event.Modifiers()&tcell.ModCtrl != 0

	switch event.Key() {
	case tcell.KeyLeft:
		if mod {
			return NavJumpLeft
		}
		return NavLeft
	case tcell.KeyDown:
		if mod {
			return NavJumpDown
		}
		return NavDown
	case tcell.KeyUp:
		if mod {
			return NavJumpUp
		}
		return NavUp
	case tcell.KeyRight:
		if mod {
			return NavJumpRight
		}
		return NavRight
	case tcell.KeyCtrlD:
		return NavHalfPageDown
	case tcell.KeyCtrlU:
		return NavHalfPageUp
	case tcell.KeyCtrlF:
		return NavPageDown
	case tcell.KeyCtrlB:
		return NavPageUp
	case tcell.KeyCtrlH:
		return NavJumpLeft
	case tcell.KeyCtrlJ:
		return NavJumpDown
	case tcell.KeyCtrlK:
		return NavJumpUp
	case tcell.KeyCtrlL:
		return NavJumpRight
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			return NavLeft
		case 'j':
			return NavDown
		case 'k':
			return NavUp
		case 'l':
			return NavRight
		case '0':
			return NavLineStart
		case '^':
			return NavFirstOccupied
		case '$':
			return NavLineEnd
		case 'G':
			return NavLastRow
		}
	}
	return NavNone
}
