package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

const storeTimeout = 5 * time.Second

// FormatAmount renders an amount with two decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatSigned prefixes the amount with + for income and - for expenses.
func FormatSigned(v float64, t transaction.Type) string {
	if t == transaction.TypeIncome {
		return "+" + FormatAmount(v)
	}

	return "-" + FormatAmount(v)
}

// ParseAmount reads a user-typed amount, accepting a decimal comma.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil {
		return 0, err
	}

	return d.Round(2).InexactFloat64(), nil
}

func normalizeDecimal(s string) string {
	out := make([]rune, 0, len(s))

	for _, r := range s {
		switch r {
		case ' ':
		case ',':
			out = append(out, '.')
		default:
			out = append(out, r)
		}
	}

	return string(out)
}

// StoreCtx returns a context with a standard timeout for document store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
