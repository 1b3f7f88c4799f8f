// Package format implements the visual-mode cell reformatting operators
// (ff, f,, f$, fe, f%): destructive, numeric-only rewrites of cell text.
// A cell that does not parse as a number is left unchanged by every
// operator in this package.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msheldon32/tabular-sub000/numparse"
)

// Default re-renders a cell through the numeric parser/formatter pair,
// stripping any currency symbol, thousands separators, or percent sign
// picked up on input. Returns ok=false (cell left unchanged) when the
// text is not numeric.
func Default(s string) (string, bool) {
	v, ok := numparse.Parse(s)
	if !ok {
		return s, false
	}
	return numparse.FormatValue(v), true
}

// Commas re-renders a numeric cell with thousands separators in the
// integer part, preserving whatever decimal digits were present.
func Commas(s string) (string, bool) {
	v, ok := numparse.Parse(s)
	if !ok {
		return s, false
	}
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	plain := strconv.FormatFloat(v, 'f', -1, 64)

	grouped := groupThousands(strconv.FormatInt(whole, 10))
	var out string
	if i := strings.IndexByte(plain, '.'); i >= 0 {
		out = grouped + "." + plain[i+1:]
	} else {
		out = grouped
	}
	if neg {
		out = "-" + out
	}
	return out, true
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Currency re-renders a numeric cell with a leading '$' and exactly two
// decimal places, thousands-separated.
func Currency(s string) (string, bool) {
	v, ok := numparse.Parse(s)
	if !ok {
		return s, false
	}
	neg := v < 0
	if neg {
		v = -v
	}
	totalCents := int64(v*100 + 0.5)
	whole := totalCents / 100
	cents := totalCents % 100
	out := fmt.Sprintf("$%s.%02d", groupThousands(strconv.FormatInt(whole, 10)), cents)
	if neg {
		out = "-" + out
	}
	return out, true
}

// Scientific re-renders a numeric cell in scientific notation with two
// digits of mantissa precision.
func Scientific(s string) (string, bool) {
	v, ok := numparse.Parse(s)
	if !ok {
		return s, false
	}
	return strconv.FormatFloat(v, 'e', 2, 64), true
}

// Percentage re-renders a numeric cell as a whole-number percentage
// (0.15 -> "15%").
func Percentage(s string) (string, bool) {
	v, ok := numparse.Parse(s)
	if !ok {
		return s, false
	}
	pct := v * 100
	rounded := int64(pct)
	if pct-float64(rounded) >= 0.5 {
		rounded++
	} else if pct-float64(rounded) <= -0.5 {
		rounded--
	}
	return fmt.Sprintf("%d%%", rounded), true
}

// Display renders a raw numeric string at a fixed display precision, for
// the :prec command. A precision of nil leaves the text unchanged; a
// non-numeric cell is always returned unchanged.
func Display(s string, precision *int) string {
	if precision == nil {
		return s
	}
	v, ok := numparse.Parse(strings.TrimSpace(s))
	if !ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', *precision, 64)
}
