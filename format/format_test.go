package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	out, ok := Default("$1,234.50")
	require.True(t, ok)
	assert.Equal(t, "1234.5", out)

	out, ok = Default("hello")
	assert.False(t, ok)
	assert.Equal(t, "hello", out)
}

func TestCommas(t *testing.T) {
	out, ok := Commas("1234567")
	require.True(t, ok)
	assert.Equal(t, "1,234,567", out)

	out, ok = Commas("-1234.5")
	require.True(t, ok)
	assert.Equal(t, "-1,234.5", out)

	out, ok = Commas("12")
	require.True(t, ok)
	assert.Equal(t, "12", out)
}

func TestCurrency(t *testing.T) {
	out, ok := Currency("1234.5")
	require.True(t, ok)
	assert.Equal(t, "$1,234.50", out)

	_, ok = Currency("abc")
	assert.False(t, ok)
}

func TestPercentage(t *testing.T) {
	out, ok := Percentage("0.15")
	require.True(t, ok)
	assert.Equal(t, "15%", out)

	out, ok = Percentage("1")
	require.True(t, ok)
	assert.Equal(t, "100%", out)
}

func TestScientific(t *testing.T) {
	out, ok := Scientific("1230")
	require.True(t, ok)
	assert.Equal(t, "1.23e+03", out)
}

func TestDisplay(t *testing.T) {
	prec := 2
	assert.Equal(t, "3.14", Display("3.14159", &prec))
	assert.Equal(t, "hello", Display("hello", &prec))
	assert.Equal(t, "3.14159", Display("3.14159", nil))
}

func TestNonNumericUnchanged(t *testing.T) {
	for _, fn := range []func(string) (string, bool){Default, Commas, Currency, Scientific, Percentage} {
		out, ok := fn("not a number")
		assert.False(t, ok)
		assert.Equal(t, "not a number", out)
	}
}
