package formula

import (
	"strconv"
	"strings"

	"github.com/msheldon32/tabular-sub000/table"
)

// TranslateRefs rewrites every standalone cell reference in a formula
// string by the given row/column offsets, clamping the result to column
// >= 0 and row >= 1 (1-indexed). The original letter case is preserved.
// Non-formula text (not starting with '=') passes through unchanged.
func TranslateRefs(text string, dr, dc int) string {
	if !strings.HasPrefix(text, "=") {
		return text
	}

	runes := []rune(text)
	var sb strings.Builder
	i := 0
	for i < len(runes) {
		if isLetterRune(runes[i]) && !precededByAlnum(runes, i) {
			j := i
			for j < len(runes) && isLetterRune(runes[j]) {
				j++
			}
			k := j
			for k < len(runes) && isDigitRune(runes[k]) {
				k++
			}
			if k > j && !followedByAlnum(runes, k) {
				letters := string(runes[i:j])
				digits := string(runes[j:k])
				sb.WriteString(translateOne(letters, digits, dr, dc))
				i = k
				continue
			}
		}
		sb.WriteRune(runes[i])
		i++
	}
	return sb.String()
}

func translateOne(letters, digits string, dr, dc int) string {
	col := table.ColumnFromLetters(strings.ToUpper(letters))
	row, err := strconv.Atoi(digits)
	if err != nil {
		return letters + digits
	}

	col += dc
	if col < 0 {
		col = 0
	}
	row += dr
	if row < 1 {
		row = 1
	}

	newLetters := table.ColumnLetters(col)
	return applyCase(letters, newLetters) + strconv.Itoa(row)
}

// applyCase renders newLetters in the same case pattern as original,
// extending with the case of the last original character if newLetters
// is longer (e.g. column growth from Z to AA).
func applyCase(original, newLetters string) string {
	if original == "" {
		return newLetters
	}
	lower := isLowerRune([]rune(original)[len(original)-1])
	var sb strings.Builder
	oi := 0
	for _, r := range newLetters {
		srcLower := lower
		if oi < len(original) {
			srcLower = isLowerRune(rune(original[oi]))
		}
		if srcLower {
			sb.WriteRune(toLowerRune(r))
		} else {
			sb.WriteRune(r)
		}
		oi++
	}
	return sb.String()
}

func isLetterRune(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigitRune(r rune) bool  { return r >= '0' && r <= '9' }
func isAlnumRune(r rune) bool  { return isLetterRune(r) || isDigitRune(r) }
func isLowerRune(r rune) bool  { return r >= 'a' && r <= 'z' }
func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func precededByAlnum(runes []rune, i int) bool {
	if i == 0 {
		return false
	}
	return isAlnumRune(runes[i-1]) || runes[i-1] == '_'
}

func followedByAlnum(runes []rune, i int) bool {
	if i >= len(runes) {
		return false
	}
	return isAlnumRune(runes[i]) || runes[i] == '_'
}
