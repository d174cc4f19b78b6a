package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatPrice renders amount as Indian rupees using en-IN digit grouping,
// e.g. 1234567.5 is "₹12,34,567.50".
func FormatPrice(amount float64) string {
	return inrPrinter.Sprintf("₹%v", number.Decimal(amount, number.Scale(2)))
}

// FormatRating renders a rating value with one decimal place.
func FormatRating(rate float64) string {
	return inrPrinter.Sprintf("%v", number.Decimal(rate, number.Scale(1)))
}
