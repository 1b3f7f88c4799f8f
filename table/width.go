package table

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// displayWidth measures a cell's rendered width the way the column-width
// cache wants it: fullwidth forms (common in pasted CJK spreadsheet data,
// e.g. "１２３" or "％") are folded to their narrow equivalents first, so a
// column holding a mix of ASCII and fullwidth digits doesn't get sized
// for the wider of the two for no visible reason.
func displayWidth(s string) int {
	return runewidth.StringWidth(normalizeDigitWidth(s))
}

// normalizeDigitWidth folds East Asian fullwidth and halfwidth forms to
// their canonical narrow form via width.Fold, leaving ordinary text
// untouched.
func normalizeDigitWidth(s string) string {
	return width.Fold.String(s)
}
