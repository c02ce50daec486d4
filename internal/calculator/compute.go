package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// expressions holds one compiled expression per operator. EvaluableExpression
// is read-only after compilation, so the set is shared by all callers.
var expressions = map[Operation]*govaluate.EvaluableExpression{
	Add:      mustCompile("previous + current"),
	Subtract: mustCompile("previous - current"),
	Multiply: mustCompile("previous * current"),
	Divide:   mustCompile("previous / current"),
}

func mustCompile(expr string) *govaluate.EvaluableExpression {
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		panic(fmt.Sprintf("compile %q: %v", expr, err))
	}
	return e
}

// Compute applies op to the two operand strings and returns the result as
// text. It returns "" when either operand is not a number or op is unknown.
// Division by zero follows IEEE 754 and yields Infinity or NaN.
func Compute(previous, current string, op Operation) string {
	prev, ok := parseOperand(previous)
	if !ok {
		return ""
	}
	cur, ok := parseOperand(current)
	if !ok {
		return ""
	}

	expr, ok := expressions[op]
	if !ok {
		return ""
	}

	result, err := expr.Evaluate(map[string]interface{}{
		"previous": prev,
		"current":  cur,
	})
	if err != nil {
		return ""
	}

	f, ok := result.(float64)
	if !ok {
		return ""
	}
	return FormatNumber(f)
}

func parseOperand(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f the way a JavaScript engine renders a Number, so that
// results read back by parseOperand unchanged and display naturally.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent turns Go's "1e-07" into "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + string(sign) + digits
}
