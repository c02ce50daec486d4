package calculator

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.AmericanEnglish

// maxExactDigits is the longest integer part whose grouping layout can be
// taken from a float64 power of ten.
const maxExactDigits = 308

// Formatter renders operands for display: the integer part is grouped with
// the locale's thousands separator, the fractional part is kept verbatim.
type Formatter struct {
	printer *message.Printer
	digits  [10]string
}

// NewFormatter returns a Formatter for the given locale.
func NewFormatter(tag language.Tag) *Formatter {
	f := &Formatter{printer: message.NewPrinter(tag)}
	for i := range f.digits {
		f.digits[i] = f.printer.Sprint(number.Decimal(i))
	}
	return f
}

// ParseLocale resolves a BCP 47 tag such as "en-US" or "de-DE".
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	return language.Parse(s)
}

// Format renders operand. It reports false for an absent operand, which the
// presentation layer shows as a blank.
func (f *Formatter) Format(operand *string) (string, bool) {
	if operand == nil {
		return "", false
	}

	integer, decimal, hasDecimal := strings.Cut(*operand, ".")
	grouped := f.group(integer)
	if !hasDecimal {
		return grouped, true
	}
	return grouped + "." + decimal, true
}

// group renders the integer part of an operand with locale grouping. Plain
// digit strings keep every typed digit: the layout comes from formatting a
// power of ten of the same length, and the digits are substituted into it.
// Anything else (Infinity, NaN, exponent forms) goes through float64.
func (f *Formatter) group(integer string) string {
	sign, digits := "", integer
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		sign, digits = "-", rest
	}
	if !isDigits(digits) || len(digits) > maxExactDigits {
		return f.printer.Sprint(number.Decimal(integerValue(integer), number.MaxFractionDigits(0)))
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}

	scale := math.Pow10(len(digits) - 1)
	if sign != "" {
		scale = -scale
	}
	layout := f.printer.Sprint(number.Decimal(scale, number.MaxFractionDigits(0)))

	zero, _ := utf8.DecodeRuneInString(f.digits[0])
	one, _ := utf8.DecodeRuneInString(f.digits[1])

	var b strings.Builder
	next := 0
	for _, r := range layout {
		if (r == zero || r == one) && next < len(digits) {
			b.WriteString(f.digits[digits[next]-'0'])
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// integerValue converts the integer part of an operand to a number. An empty
// part ("" from ".5") is zero; anything unparseable is NaN.
func integerValue(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Display is the rendered form of a State.
type Display struct {
	Previous  string    `json:"previous"`
	Operation Operation `json:"operation,omitempty"`
	Current   string    `json:"current"`
}

// Render formats the operands of s for display.
func (f *Formatter) Render(s State) Display {
	previous, _ := f.Format(s.PreviousOperand)
	current, _ := f.Format(s.CurrentOperand)
	return Display{
		Previous:  previous,
		Operation: s.Operation,
		Current:   current,
	}
}

// String renders the display as two lines: previous operand and operation,
// then the current operand.
func (d Display) String() string {
	top := strings.TrimSpace(d.Previous + " " + string(d.Operation))
	return top + "\n" + d.Current
}
