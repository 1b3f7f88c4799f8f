package numparse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{"-3.5", -3.5},
		{"1,234.50", 1234.5},
		{"$99.99", 99.99},
		{"€10", 10},
		{"50%", 0.5},
		{"(5)", -5},
		{"1e3", 1000},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"  7  ", 7},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		require.Truef(t, ok, "expected %q to parse", c.in)
		assert.InDeltaf(t, c.want, got, 1e-9, "parsing %q", c.in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "12.34.56", "$"} {
		_, ok := Parse(in)
		assert.Falsef(t, ok, "expected %q to be rejected", in)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, in := range []string{"42", "-3.5", "1e3", "0.000001"} {
		v, ok := Parse(in)
		require.True(t, ok)
		formatted := FormatValue(v)
		v2, ok := Parse(formatted)
		require.True(t, ok)
		assert.InDelta(t, v, v2, 1e-9)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "30", FormatValue(30))
	assert.Equal(t, "NaN", FormatValue(math.NaN()))
	assert.Equal(t, "Inf", FormatValue(math.Inf(1)))
	assert.Equal(t, "-Inf", FormatValue(math.Inf(-1)))
	assert.Equal(t, "0.3333333333", FormatValue(1.0/3.0))
}

func TestClassifyColumn(t *testing.T) {
	assert.Equal(t, ColumnNumeric, ClassifyColumn([]string{"1", "2", "3", ""}))
	assert.Equal(t, ColumnText, ClassifyColumn([]string{"a", "b", "3"}))
	assert.Equal(t, ColumnText, ClassifyColumn([]string{"", "", ""}))
}
