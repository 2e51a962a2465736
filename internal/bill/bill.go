// Package bill holds the recurring obligations: fixed monthly bills and
// installment debts, and the projection of both into dated occurrences.
package bill

import (
	"errors"
	"slices"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

var ErrNotFound = errors.New("bill not found")

const (
	FixedBillsDocument       = "fixedBills.json"
	InstallmentDebtsDocument = "installmentDebts.json"
)

// FixedBill is a monthly template. It never creates transactions by itself.
type FixedBill struct {
	ID         string           `json:"id"`
	Name       string           `json:"name" validate:"required"`
	Amount     float64          `json:"amount" validate:"gt=0"`
	Type       transaction.Type `json:"type"`
	CategoryID string           `json:"categoryId"`
	DueDay     int              `json:"dueDay" validate:"min=1,max=31"`
	Active     bool             `json:"active"`
	TagIDs     []string         `json:"tagIds"`
}

// InstallmentDebt is paid in Installments equal parts of TotalAmount starting at FirstDueMonth.
type InstallmentDebt struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" validate:"required"`
	TotalAmount   float64  `json:"totalAmount" validate:"gt=0"`
	Installments  int      `json:"installments" validate:"min=1,max=1200"`
	FirstDueMonth string   `json:"firstDueMonth" validate:"datetime=2006-01"`
	DueDay        int      `json:"dueDay" validate:"min=1,max=31"`
	CategoryID    string   `json:"categoryId"`
	TagIDs        []string `json:"tagIds"`
}

// InstallmentAmount is TotalAmount/Installments as a plain float division.
// The parts may not add back up to TotalAmount exactly.
func (d *InstallmentDebt) InstallmentAmount() float64 {
	if d.Installments < 1 {
		return 0
	}

	return d.TotalAmount / float64(d.Installments)
}

func normalizeFixed(b *FixedBill) {
	if b.Type != transaction.TypeIncome {
		b.Type = transaction.TypeExpense
	}

	if b.TagIDs == nil {
		b.TagIDs = []string{}
	}
}

func normalizeDebt(d *InstallmentDebt) {
	if d.TagIDs == nil {
		d.TagIDs = []string{}
	}
}

func (b *FixedBill) validate() error {
	return validate.Struct(b)
}

func (d *InstallmentDebt) validate() error {
	return validate.Struct(d)
}

func cloneTags(tags []string) []string {
	c := slices.Clone(tags)
	if c == nil {
		return []string{}
	}

	return c
}
