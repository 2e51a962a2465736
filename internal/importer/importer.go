package importer

import (
	"io"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Bank string

const (
	// BankAuto tries the profiles of every known bank.
	BankAuto   Bank = "auto"
	BankCGD    Bank = "cgd"
	BankInter  Bank = "inter"
	BankNubank Bank = "nubank"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
