package catalog

import (
	"github.com/mohammad-safakhou/computesales/internal/record"
	"github.com/mohammad-safakhou/computesales/internal/report"
)

const excluded = "Product will not be included in calculations."

// Prices maps a product title to its unit price.
type Prices map[string]float64

// Entry is one catalog record that passed validation.
type Entry struct {
	Title string
	Price float64
}

// Extract runs the guard checks for the element at index in order and stops
// at the first failure: record, then title, then price.
func Extract(index int, item any) (Entry, error) {
	obj, ok := record.Object(item)
	if !ok {
		return Entry{}, record.Rejection{Index: index, Reason: "Invalid format"}
	}
	title, ok := record.Text(obj, "title")
	if !ok {
		return Entry{}, record.Rejection{Index: index, Reason: "Missing title"}
	}
	price, ok := record.Number(obj, "price")
	if !ok {
		return Entry{}, record.Rejection{Index: index, Reason: "Missing price"}
	}
	return Entry{Title: title, Price: price}, nil
}

// Validate converts a decoded catalog document into Prices. Invalid elements
// are skipped with one diagnostic each; a later entry for the same title
// replaces an earlier one.
func Validate(raw any, out report.Printer) (Prices, record.Summary) {
	prices := Prices{}
	items, ok := record.Items(raw)
	if !ok {
		out.Println("Error: Price catalog format is invalid")
		return prices, record.Summary{Malformed: true}
	}

	var sum record.Summary
	for i, item := range items {
		entry, err := Extract(i, item)
		if err != nil {
			out.Println(record.Diagnostic(err, excluded))
			sum.Rejected++
			continue
		}
		prices[entry.Title] = entry.Price
		sum.Accepted++
	}
	return prices, sum
}
