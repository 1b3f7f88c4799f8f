package formula_test

import (
	"testing"

	"github.com/msheldon32/tabular-sub000/formula"
	"github.com/msheldon32/tabular-sub000/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellUpdates(t *testing.T, tb *table.Table) map[string]string {
	t.Helper()
	updates, err := formula.NewEngine(tb).Evaluate()
	require.NoError(t, err)
	out := make(map[string]string)
	for _, u := range updates {
		ref := table.CellRef{Row: u.Row, Col: u.Col}
		out[table.FormatA1(ref)] = u.Text
	}
	return out
}

func TestArithmeticAndPrecedence(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"2", "3", "=A1+B1*2"},
		{"", "", "=(A1+B1)*2"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "8", got["C1"])
	assert.Equal(t, "10", got["C2"])
}

func TestEndToEndScoreAverage(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"name", "score"},
		{"a", "95"},
		{"b", "87"},
		{"c", "92"},
		{"avg", "=AVERAGE(B2:B4)"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "91.3333333333", got["B5"])
}

func TestRowRangeSum(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"1", "2"},
		{"3", "4"},
		{"=SUM(1:2)", ""},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "10", got["A3"])
}

func TestColRangeSum(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"1", "2", "0"},
		{"3", "4", "0"},
		{"", "", "=SUM(A:B)"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "10", got["C3"])
}

func TestCircularReferenceDetected(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"=B1", "=A1"},
	})
	_, err := formula.NewEngine(tb).Evaluate()
	require.Error(t, err)
	var circ *formula.CircularReferenceError
	assert.ErrorAs(t, err, &circ)
}

func TestSelfReferenceIsCircular(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"=A1+1"},
	})
	_, err := formula.NewEngine(tb).Evaluate()
	require.Error(t, err)
}

func TestChainedDependencies(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"5", "=A1*2", "=B1+1"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "10", got["B1"])
	assert.Equal(t, "11", got["C1"])
}

func TestDivisionByZeroPropagatesInfRatherThanFailingCalc(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"1", "0", "=A1/B1", "=C1+1"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "Inf", got["C1"])
	assert.Equal(t, "Inf", got["D1"])
}

func TestComparisonAndLogicalParse(t *testing.T) {
	expr, err := formula.Parse("=(A1>B1) AND NOT (B1>A1)")
	require.NoError(t, err)
	assert.NotNil(t, expr)
}

func TestBuiltinMathFunctions(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"=ABS(-4)", "=SQRT(16)", "=POW(2,10)", "=ROUND(3.14159,2)"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "4", got["A1"])
	assert.Equal(t, "4", got["B1"])
	assert.Equal(t, "1024", got["C1"])
	assert.Equal(t, "3.14", got["D1"])
}

func TestDivisionAndModByZeroProduceInfAndNaNRatherThanFail(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"=1/0", "=-1/0", "=0/0", "=5%0"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "Inf", got["A1"])
	assert.Equal(t, "-Inf", got["B1"])
	assert.Equal(t, "NaN", got["C1"])
	assert.Equal(t, "NaN", got["D1"])
}

func TestAggregateDegenerateCases(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"7", "=STDEV(A1:A1)", "=SUM(A1:A1)"},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "NaN", got["B1"])
	assert.Equal(t, "7", got["C1"])
}

func TestPercentileAndQuartile(t *testing.T) {
	tb := table.NewFromRows([][]string{
		{"1", "2", "3", "4"},
		{"=PERCENTILE(A1:D1,0.5)", "=QUARTILE(A1:D1,2)", "", ""},
	})
	got := cellUpdates(t, tb)
	assert.Equal(t, "2.5", got["A2"])
	assert.Equal(t, "2.5", got["B2"])
}

func TestTranslateRefsPreservesCaseAndClamps(t *testing.T) {
	assert.Equal(t, "=a1+b2", formula.TranslateRefs("=a1+b1", 1, 0))
	assert.Equal(t, "=A1", formula.TranslateRefs("=A2", -5, 0))
	assert.Equal(t, "plain text", formula.TranslateRefs("plain text", 1, 1))
}

func TestParseRejectsEmptyFormula(t *testing.T) {
	_, err := formula.Parse("=")
	require.Error(t, err)
}

func TestParseRejectsUnclosedString(t *testing.T) {
	_, err := formula.Parse(`="abc`)
	require.Error(t, err)
}

func TestExtractDependenciesExpandsRange(t *testing.T) {
	expr, err := formula.Parse("=SUM(A1:A3)")
	require.NoError(t, err)
	deps := formula.ExtractDependencies(expr, 10, 10)
	require.Len(t, deps, 3)
}
