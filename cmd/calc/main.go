// Command calc is a terminal front end for the calculator. It reads button
// labels separated by whitespace from stdin ("1 2 + 3 =", "DEL", "AC") and
// prints the display after each line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"calculator-widget/internal/calculator"
)

func main() {
	locale := flag.String("locale", os.Getenv("CALCULATOR_LOCALE"), "BCP 47 locale used to group digits")
	flag.Parse()

	tag, err := calculator.ParseLocale(*locale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calc: invalid locale %q: %v\n", *locale, err)
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, calculator.NewFormatter(tag)); err != nil {
		fmt.Fprintf(os.Stderr, "calc: %v\n", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, formatter *calculator.Formatter) error {
	calc := calculator.New()
	fmt.Fprintln(out, formatter.Render(calc.State()))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, key := range strings.Fields(scanner.Text()) {
			action, ok := calculator.KeyAction(key)
			if !ok {
				fmt.Fprintf(out, "unknown key %q\n", key)
				continue
			}
			calc.Dispatch(action)
		}
		fmt.Fprintln(out, formatter.Render(calc.State()))
	}
	return scanner.Err()
}
