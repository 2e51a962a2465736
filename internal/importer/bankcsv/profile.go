package bankcsv

import "time"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of one bank's CSV export.
type Profile struct {
	Bank       string
	Name       string
	Comma      rune
	DateCol    string
	DateLayout string
	DescCol    string
	// DecimalComma marks amounts written as 1.234,56 instead of 1234.56.
	DecimalComma bool
	AmountMode   amountMode
	AmountCol    string // used when AmountMode == amountSingle
	DebitCol     string // used when AmountMode == amountSplit
	CreditCol    string // used when AmountMode == amountSplit
	// ChargesPositive flips the sign convention of card statements, where a
	// positive amount is a purchase.
	ChargesPositive bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Bank:         "cgd",
		Name:         "cartão",
		Comma:        ';',
		DateCol:      "Data",
		DateLayout:   "02-01-2006",
		DescCol:      "Descrição",
		DecimalComma: true,
		AmountMode:   amountSplit,
		DebitCol:     "Débito",
		CreditCol:    "Crédito",
	},
	{
		Bank:         "cgd",
		Name:         "extrato",
		Comma:        ';',
		DateCol:      "Data mov.",
		DateLayout:   "02-01-2006",
		DescCol:      "Descrição",
		DecimalComma: true,
		AmountCol:    "Movimento",
	},
	{
		Bank:         "cgd",
		Name:         "conta",
		Comma:        ';',
		DateCol:      "Data mov.",
		DateLayout:   "02-01-2006",
		DescCol:      "Descrição",
		DecimalComma: true,
		AmountCol:    "Montante",
	},
	{
		Bank:         "inter",
		Name:         "extrato",
		Comma:        ';',
		DateCol:      "Data Lançamento",
		DateLayout:   "02/01/2006",
		DescCol:      "Descrição",
		DecimalComma: true,
		AmountCol:    "Valor",
	},
	{
		Bank:       "nubank",
		Name:       "conta",
		Comma:      ',',
		DateCol:    "Data",
		DateLayout: "02/01/2006",
		DescCol:    "Descrição",
		AmountCol:  "Valor",
	},
	{
		Bank:            "nubank",
		Name:            "fatura",
		Comma:           ',',
		DateCol:         "date",
		DateLayout:      time.DateOnly,
		DescCol:         "title",
		AmountCol:       "amount",
		ChargesPositive: true,
	},
}

// Banks lists the banks that have at least one profile, in profile order.
func Banks() []string {
	var out []string

	seen := map[string]bool{}

	for _, p := range profiles {
		if !seen[p.Bank] {
			seen[p.Bank] = true
			out = append(out, p.Bank)
		}
	}

	return out
}
