package report

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var dollars = message.NewPrinter(language.English)

// FormatDollars renders v with thousands separators and two decimals, e.g.
// $1,234.56. Negative values keep the sign after the symbol ($-12.00).
func FormatDollars(v float64) string {
	// round on the binary value first; the grouping printer rounds half-even
	// on the shortest decimal form, which disagrees for inputs like 2.675.
	cents, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return dollars.Sprintf("$%.2f", cents)
}

// TotalLine is the closing line of a completed run.
func TotalLine(total float64) string {
	return "Total Sales: " + FormatDollars(total)
}
