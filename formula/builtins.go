package formula

import (
	"math"
	"math/rand"
	"sort"
)

type fnImpl func(e *Engine, args []Expr) (value, error)

var builtins map[string]fnImpl

func init() {
	builtins = make(map[string]fnImpl)
	for _, name := range aggregateNames {
		name := name
		builtins[name] = func(e *Engine, args []Expr) (value, error) {
			return e.evalAggregate(name, args)
		}
	}
	for name, fn := range singleArgMath {
		fn := fn
		builtins[name] = func(e *Engine, args []Expr) (value, error) {
			return e.evalSingleArgMath(fn, args)
		}
	}
	for name, fn := range twoArgMath {
		fn := fn
		builtins[name] = func(e *Engine, args []Expr) (value, error) {
			return e.evalTwoArgMath(fn, args)
		}
	}
	builtins["CORREL"] = (*Engine).evalCorrel
	builtins["COVAR"] = (*Engine).evalCovar
	builtins["PERCENTILE"] = (*Engine).evalPercentile
	builtins["QUARTILE"] = (*Engine).evalQuartile
	builtins["PI"] = func(e *Engine, args []Expr) (value, error) { return numVal(math.Pi), nil }
	builtins["E"] = func(e *Engine, args []Expr) (value, error) { return numVal(math.E), nil }
	builtins["RAND"] = func(e *Engine, args []Expr) (value, error) { return numVal(rand.Float64()), nil }
}

func (e *Engine) evalFnCall(n FnCall) (value, error) {
	fn, ok := builtins[n.Name]
	if !ok {
		return value{}, evalErrorf("unknown function %s", n.Name)
	}
	return fn(e, n.Args)
}

var aggregateNames = []string{
	"SUM", "AVG", "AVERAGE", "MIN", "MAX", "COUNT", "PRODUCT", "MEDIAN",
	"MODE", "STDEV", "STDEVP", "VAR", "VARP", "GEOMEAN", "HARMEAN",
	"SUMSQ", "AVEDEV", "DEVSQ", "KURT", "SKEW",
}

func (e *Engine) evalAggregate(name string, args []Expr) (value, error) {
	if len(args) != 1 {
		return value{}, evalErrorf("%s expects exactly one range argument", name)
	}
	vals, err := e.collectRangeValues(args[0])
	if err != nil {
		return value{}, err
	}
	f, err := aggregate(name, vals)
	if err != nil {
		return value{}, err
	}
	return numVal(f), nil
}

func aggregate(name string, vals []float64) (float64, error) {
	switch name {
	case "SUM":
		return sumOf(vals), nil
	case "AVG", "AVERAGE":
		if len(vals) == 0 {
			return math.NaN(), nil
		}
		return sumOf(vals) / float64(len(vals)), nil
	case "MIN":
		if len(vals) == 0 {
			return math.NaN(), nil
		}
		return minOf(vals), nil
	case "MAX":
		if len(vals) == 0 {
			return math.NaN(), nil
		}
		return maxOf(vals), nil
	case "COUNT":
		return float64(len(vals)), nil
	case "PRODUCT":
		p := 1.0
		for _, v := range vals {
			p *= v
		}
		return p, nil
	case "MEDIAN":
		return medianOf(vals), nil
	case "MODE":
		return modeOf(vals), nil
	case "STDEV":
		return stdevOf(vals, true), nil
	case "STDEVP":
		return stdevOf(vals, false), nil
	case "VAR":
		return varianceOf(vals, true), nil
	case "VARP":
		return varianceOf(vals, false), nil
	case "GEOMEAN":
		return geomeanOf(vals), nil
	case "HARMEAN":
		return harmeanOf(vals), nil
	case "SUMSQ":
		s := 0.0
		for _, v := range vals {
			s += v * v
		}
		return s, nil
	case "AVEDEV":
		return avedevOf(vals), nil
	case "DEVSQ":
		return devsqOf(vals), nil
	case "KURT":
		return kurtOf(vals), nil
	case "SKEW":
		return skewOf(vals), nil
	default:
		return 0, evalErrorf("unknown aggregate %s", name)
	}
}

func sumOf(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return sumOf(vals) / float64(len(vals))
}

func medianOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func modeOf(vals []float64) float64 {
	counts := make(map[float64]int)
	for _, v := range vals {
		counts[v]++
	}
	best := math.NaN()
	bestCount := 1
	for _, v := range vals {
		if counts[v] > bestCount {
			bestCount = counts[v]
			best = v
		}
	}
	if bestCount <= 1 {
		return math.NaN()
	}
	return best
}

func varianceOf(vals []float64, sample bool) float64 {
	n := len(vals)
	denom := n
	if sample {
		denom = n - 1
	}
	if denom <= 0 {
		return math.NaN()
	}
	m := meanOf(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return s / float64(denom)
}

func stdevOf(vals []float64, sample bool) float64 {
	return math.Sqrt(varianceOf(vals, sample))
}

func geomeanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	logSum := 0.0
	for _, v := range vals {
		if v <= 0 {
			return math.NaN()
		}
		logSum += math.Log(v)
	}
	return math.Exp(logSum / float64(len(vals)))
}

func harmeanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	recipSum := 0.0
	for _, v := range vals {
		if v == 0 {
			return math.NaN()
		}
		recipSum += 1 / v
	}
	return float64(len(vals)) / recipSum
}

func avedevOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := meanOf(vals)
	s := 0.0
	for _, v := range vals {
		s += math.Abs(v - m)
	}
	return s / float64(len(vals))
}

func devsqOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := meanOf(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return s
}

func skewOf(vals []float64) float64 {
	n := len(vals)
	if n < 3 {
		return math.NaN()
	}
	m := meanOf(vals)
	sd := stdevOf(vals, true)
	if sd == 0 {
		return math.NaN()
	}
	s := 0.0
	for _, v := range vals {
		s += math.Pow((v-m)/sd, 3)
	}
	nf := float64(n)
	return (nf / ((nf - 1) * (nf - 2))) * s
}

func kurtOf(vals []float64) float64 {
	n := len(vals)
	if n < 4 {
		return math.NaN()
	}
	m := meanOf(vals)
	sd := stdevOf(vals, true)
	if sd == 0 {
		return math.NaN()
	}
	s := 0.0
	for _, v := range vals {
		s += math.Pow((v-m)/sd, 4)
	}
	nf := float64(n)
	term1 := (nf * (nf + 1)) / ((nf - 1) * (nf - 2) * (nf - 3))
	term2 := (3 * (nf - 1) * (nf - 1)) / ((nf - 2) * (nf - 3))
	return term1*s - term2
}

func (e *Engine) evalSingleArgMath(fn func(float64) float64, args []Expr) (value, error) {
	if len(args) != 1 {
		return value{}, evalErrorf("expects exactly one numeric argument")
	}
	v, err := e.evalExpr(args[0])
	if err != nil {
		return value{}, err
	}
	f, err := v.asNum()
	if err != nil {
		return value{}, err
	}
	return numVal(fn(f)), nil
}

var singleArgMath = map[string]func(float64) float64{
	"ABS":     math.Abs,
	"SQRT":    math.Sqrt,
	"EXP":     math.Exp,
	"LN":      math.Log,
	"LOG10":   math.Log10,
	"LOG2":    math.Log2,
	"SIN":     math.Sin,
	"COS":     math.Cos,
	"TAN":     math.Tan,
	"ASIN":    math.Asin,
	"ACOS":    math.Acos,
	"ATAN":    math.Atan,
	"SINH":    math.Sinh,
	"COSH":    math.Cosh,
	"TANH":    math.Tanh,
	"FLOOR":   math.Floor,
	"CEIL":    math.Ceil,
	"TRUNC":   math.Trunc,
	"SIGN":    signOf,
	"FACT":    factOf,
	"DEGREES": func(r float64) float64 { return r * 180 / math.Pi },
	"RADIANS": func(d float64) float64 { return d * math.Pi / 180 },
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func factOf(v float64) float64 {
	n := int64(v)
	if float64(n) != v || n < 0 {
		return math.NaN()
	}
	f := 1.0
	for i := int64(2); i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func (e *Engine) evalTwoArgMath(fn func(a, b float64) float64, args []Expr) (value, error) {
	if len(args) != 2 {
		return value{}, evalErrorf("expects exactly two numeric arguments")
	}
	av, err := e.evalExpr(args[0])
	if err != nil {
		return value{}, err
	}
	a, err := av.asNum()
	if err != nil {
		return value{}, err
	}
	bv, err := e.evalExpr(args[1])
	if err != nil {
		return value{}, err
	}
	b, err := bv.asNum()
	if err != nil {
		return value{}, err
	}
	return numVal(fn(a, b)), nil
}

var twoArgMath = map[string]func(a, b float64) float64{
	"POW":    math.Pow,
	"POWER":  math.Pow,
	"MOD":    modFloat,
	"LOG":    func(x, base float64) float64 { return math.Log(x) / math.Log(base) },
	"ATAN2":  math.Atan2,
	"ROUND":  roundTo,
	"COMBIN": combinOf,
	"PERMUT": permutOf,
	"GCD":    gcdOf,
	"LCM":    lcmOf,
}

func powFloat(a, b float64) float64 { return math.Pow(a, b) }

func modFloat(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func roundTo(x, digits float64) float64 {
	mult := math.Pow(10, math.Trunc(digits))
	return math.Round(x*mult) / mult
}

func combinOf(n, k float64) float64 {
	ni, ki := int64(n), int64(k)
	if ki < 0 || ki > ni {
		return math.NaN()
	}
	return math.Round(factOf(n) / (factOf(k) * factOf(n-k)))
}

func permutOf(n, k float64) float64 {
	ni, ki := int64(n), int64(k)
	if ki < 0 || ki > ni {
		return math.NaN()
	}
	return math.Round(factOf(n) / factOf(n-k))
}

func gcdOf(a, b float64) float64 {
	x, y := int64(math.Abs(a)), int64(math.Abs(b))
	for y != 0 {
		x, y = y, x%y
	}
	return float64(x)
}

func lcmOf(a, b float64) float64 {
	g := gcdOf(a, b)
	if g == 0 {
		return 0
	}
	return math.Abs(a*b) / g
}

func (e *Engine) evalCorrel(args []Expr) (value, error) {
	if len(args) != 2 {
		return value{}, evalErrorf("CORREL expects two range arguments")
	}
	xs, err := e.collectRangeValues(args[0])
	if err != nil {
		return value{}, err
	}
	ys, err := e.collectRangeValues(args[1])
	if err != nil {
		return value{}, err
	}
	if len(xs) != len(ys) || len(xs) < 2 {
		return numVal(math.NaN()), nil
	}
	mx, my := meanOf(xs), meanOf(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return numVal(math.NaN()), nil
	}
	return numVal(sxy / math.Sqrt(sxx*syy)), nil
}

func (e *Engine) evalCovar(args []Expr) (value, error) {
	if len(args) != 2 {
		return value{}, evalErrorf("COVAR expects two range arguments")
	}
	xs, err := e.collectRangeValues(args[0])
	if err != nil {
		return value{}, err
	}
	ys, err := e.collectRangeValues(args[1])
	if err != nil {
		return value{}, err
	}
	if len(xs) != len(ys) || len(xs) == 0 {
		return numVal(math.NaN()), nil
	}
	mx, my := meanOf(xs), meanOf(ys)
	s := 0.0
	for i := range xs {
		s += (xs[i] - mx) * (ys[i] - my)
	}
	return numVal(s / float64(len(xs))), nil
}

func (e *Engine) evalPercentile(args []Expr) (value, error) {
	if len(args) != 2 {
		return value{}, evalErrorf("PERCENTILE expects a range and a fraction")
	}
	vals, err := e.collectRangeValues(args[0])
	if err != nil {
		return value{}, err
	}
	kv, err := e.evalExpr(args[1])
	if err != nil {
		return value{}, err
	}
	k, err := kv.asNum()
	if err != nil {
		return value{}, err
	}
	f, ok := percentileOf(vals, k)
	if !ok {
		return numVal(math.NaN()), nil
	}
	return numVal(f), nil
}

func percentileOf(vals []float64, k float64) (float64, bool) {
	if len(vals) == 0 || k < 0 || k > 1 {
		return 0, false
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0], true
	}
	pos := k * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], true
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), true
}

func (e *Engine) evalQuartile(args []Expr) (value, error) {
	if len(args) != 2 {
		return value{}, evalErrorf("QUARTILE expects a range and a quartile number")
	}
	vals, err := e.collectRangeValues(args[0])
	if err != nil {
		return value{}, err
	}
	qv, err := e.evalExpr(args[1])
	if err != nil {
		return value{}, err
	}
	q, err := qv.asNum()
	if err != nil {
		return value{}, err
	}
	qi := int(q)
	if float64(qi) != q || qi < 0 || qi > 4 {
		return value{}, evalErrorf("QUARTILE expects a whole number between 0 and 4")
	}
	f, ok := percentileOf(vals, float64(qi)/4)
	if !ok {
		return numVal(math.NaN()), nil
	}
	return numVal(f), nil
}
