package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msheldon32/tabular-sub000/numparse"
	"github.com/msheldon32/tabular-sub000/predicate"
)

func TestParseBasicCommands(t *testing.T) {
	assert.Equal(t, Write{}, Parse("w"))
	assert.Equal(t, Quit{}, Parse("q"))
	assert.Equal(t, ForceQuit{}, Parse("q!"))
	assert.Equal(t, WriteQuit{}, Parse("wq"))
	assert.Equal(t, AddColumn{}, Parse("addcol"))
	assert.Equal(t, DeleteColumn{}, Parse("delcol"))
	assert.Equal(t, ToggleHeader{}, Parse("header"))
	assert.Equal(t, Calc{}, Parse("calc"))
}

func TestParseSortCommands(t *testing.T) {
	assert.Equal(t, Sort{}, Parse("sort"))
	assert.Equal(t, SortDesc{}, Parse("sortd"))
	assert.Equal(t, SortDesc{}, Parse("sort!"))
	assert.Equal(t, SortRow{}, Parse("sortr"))
	assert.Equal(t, SortRowDesc{}, Parse("sortrd"))
	assert.Equal(t, SortRowDesc{}, Parse("sortr!"))
}

func TestParseRowNavigation(t *testing.T) {
	assert.Equal(t, NavigateRow{Row: 0}, Parse("1"))
	assert.Equal(t, NavigateRow{Row: 9}, Parse("10"))
}

func TestParseCellNavigation(t *testing.T) {
	cmd := Parse("A1")
	nav, ok := cmd.(NavigateCell)
	require.True(t, ok)
	assert.Equal(t, 0, nav.Ref.Row)
	assert.Equal(t, 0, nav.Ref.Col)

	cmd = Parse("B5")
	nav, ok = cmd.(NavigateCell)
	require.True(t, ok)
	assert.Equal(t, 4, nav.Ref.Row)
	assert.Equal(t, 1, nav.Ref.Col)
}

func TestParseUnknown(t *testing.T) {
	assert.Equal(t, Unknown{Text: ""}, Parse(""))
}

func TestParseWithWhitespace(t *testing.T) {
	assert.Equal(t, Write{}, Parse("  w  "))
	assert.Equal(t, ForceQuit{}, Parse("  q!  "))
}

func TestParseSubstitute(t *testing.T) {
	cmd := Parse("s/foo/bar/g")
	r, ok := cmd.(ReplaceCmd)
	require.True(t, ok)
	assert.Equal(t, "foo", r.Pattern)
	assert.Equal(t, "bar", r.Replacement)
	assert.True(t, r.Global)
	assert.Equal(t, ScopeSelection, r.Scope)

	cmd = Parse("%s/foo/bar")
	r, ok = cmd.(ReplaceCmd)
	require.True(t, ok)
	assert.Equal(t, ScopeAll, r.Scope)
	assert.False(t, r.Global)
}

func TestParseSubstituteEmptyPatternRejected(t *testing.T) {
	_, ok := Parse("s///g").(ReplaceCmd)
	assert.False(t, ok)
}

func TestParsePrecision(t *testing.T) {
	cmd := Parse("prec 2")
	p, ok := cmd.(Precision)
	require.True(t, ok)
	require.NotNil(t, p.N)
	assert.Equal(t, 2, *p.N)

	cmd = Parse("prec auto")
	p, ok = cmd.(Precision)
	require.True(t, ok)
	assert.Nil(t, p.N)

	cmd = Parse("prec")
	p, ok = cmd.(Precision)
	require.True(t, ok)
	assert.Nil(t, p.N)
}

func TestParseFilter(t *testing.T) {
	cmd := Parse("filter > 90")
	f, ok := cmd.(Filter)
	require.True(t, ok)
	assert.Equal(t, "> 90", predicate.String(f.Predicate))
}

func TestParseFilterComposed(t *testing.T) {
	cmd := Parse("filter > 5 AND < 10")
	f, ok := cmd.(Filter)
	require.True(t, ok)
	and, ok := f.Predicate.(predicate.And)
	require.True(t, ok)
	assert.True(t, and.Left.Eval("7", numparse.ColumnNumeric))
	assert.True(t, and.Right.Eval("7", numparse.ColumnNumeric))
}

func TestParseCustom(t *testing.T) {
	cmd := Parse(`myplugin "hello world"`)
	c, ok := cmd.(Custom)
	require.True(t, ok)
	assert.Equal(t, "myplugin", c.Name)
	assert.Equal(t, []string{"hello world"}, c.Args)
}
