package sales

import (
	"fmt"

	"github.com/mohammad-safakhou/computesales/internal/catalog"
	"github.com/mohammad-safakhou/computesales/internal/record"
	"github.com/mohammad-safakhou/computesales/internal/report"
)

const excluded = "Sale of item(s) will not be included in calculation"

// Sale is one validated (product, quantity) pair.
type Sale struct {
	Product  string
	Quantity int64
}

// Extract runs the guard checks for the element at index in order and stops
// at the first failure: record, then Product, then Quantity.
func Extract(index int, item any) (Sale, error) {
	obj, ok := record.Object(item)
	if !ok {
		return Sale{}, record.Rejection{Index: index, Reason: "Invalid format"}
	}
	product, ok := record.Text(obj, "Product")
	if !ok {
		return Sale{}, record.Rejection{Index: index, Reason: "Missing product"}
	}
	qty, ok := record.Integer(obj, "Quantity")
	if !ok {
		return Sale{}, record.Rejection{Index: index, Reason: "Missing quantity"}
	}
	return Sale{Product: product, Quantity: qty}, nil
}

// Validate converts a decoded sales document into sales in input order.
// Duplicates are kept; invalid elements are skipped with one diagnostic each.
func Validate(raw any, out report.Printer) ([]Sale, record.Summary) {
	items, ok := record.Items(raw)
	if !ok {
		out.Println("Error: Sales records format is invalid")
		return []Sale{}, record.Summary{Malformed: true}
	}

	sales := make([]Sale, 0, len(items))
	var sum record.Summary
	for i, item := range items {
		sale, err := Extract(i, item)
		if err != nil {
			out.Println(record.Diagnostic(err, excluded))
			sum.Rejected++
			continue
		}
		sales = append(sales, sale)
		sum.Accepted++
	}
	return sales, sum
}

// Total sums price × quantity over sales whose product is in prices. Each
// unmatched sale is reported and contributes nothing; misses counts them.
func Total(prices catalog.Prices, sales []Sale, out report.Printer) (total float64, misses int) {
	for _, s := range sales {
		price, ok := prices[s.Product]
		if !ok {
			out.Println(fmt.Sprintf("Warning: Sold product '%s' not in catalog.\n\t%s", s.Product, excluded))
			misses++
			continue
		}
		total += price * float64(s.Quantity)
	}
	return total, misses
}
