package bankcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a bank-formatted amount rounded to cents.
// With decimalComma, "1.234,56" -> 1234.56; otherwise "1,234.56" -> 1234.56.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}
