package tracker

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders p for the listing table, e.g. "€ 1,234.50".
func FormatPrice(p decimal.Decimal) string {
	return pricePrinter.Sprintf("€ %v", number.Decimal(p.InexactFloat64(), number.Scale(2)))
}

// inputPrice renders p for a numeric form field, e.g. "1234.50".
func inputPrice(p decimal.Decimal) string {
	return p.StringFixed(2)
}
