package bill

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

const monthLayout = "2006-01"

type Kind string

const (
	KindFixed       Kind = "fixed"
	KindInstallment Kind = "installment"
)

// Occurrence is one projected due date of a fixed bill or installment debt.
// ID is the key stored in the paid-marker set.
type Occurrence struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	SourceID   string           `json:"sourceId"`
	Name       string           `json:"name"`
	Month      string           `json:"month"`
	Day        int              `json:"day"`
	Date       string           `json:"date"`
	Amount     float64          `json:"amount"`
	Type       transaction.Type `json:"type"`
	CategoryID string           `json:"categoryId"`
	Label      string           `json:"label,omitempty"`
}

// MonthProjection totals the unpaid expense occurrences of one month against
// the active fixed income.
type MonthProjection struct {
	Month   string       `json:"month"`
	Income  float64      `json:"income"`
	Expense float64      `json:"expense"`
	Balance float64      `json:"balance"`
	Items   []Occurrence `json:"items"`
}

// CurrentMonth returns the YYYY-MM key of t.
func CurrentMonth(t time.Time) string {
	return t.Format(monthLayout)
}

// AddMonths shifts a YYYY-MM key by n months.
func AddMonths(month string, n int) (string, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", &validate.Error{Field: "month", Err: validate.ErrBadMonth}
	}

	return t.AddDate(0, n, 0).Format(monthLayout), nil
}

// dueDate clamps day to the last day of month.
func dueDate(month string, day int) (time.Time, error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, &validate.Error{Field: "month", Err: validate.ErrBadMonth}
	}

	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()

	return time.Date(t.Year(), t.Month(), min(max(day, 1), last), 0, 0, 0, 0, time.UTC), nil
}

// ProjectFixed expands b over months consecutive months starting at start.
// Occurrence i falls in month start+i on min(dueDay, days in that month).
func ProjectFixed(b FixedBill, start string, months int) ([]Occurrence, error) {
	out := make([]Occurrence, 0, max(months, 0))

	for i := range months {
		month, err := AddMonths(start, i)
		if err != nil {
			return nil, err
		}

		due, err := dueDate(month, b.DueDay)
		if err != nil {
			return nil, err
		}

		out = append(out, Occurrence{
			ID:         fmt.Sprintf("%s-%s-%s", KindFixed, b.ID, month),
			Kind:       KindFixed,
			SourceID:   b.ID,
			Name:       b.Name,
			Month:      month,
			Day:        due.Day(),
			Date:       due.Format(time.DateOnly),
			Amount:     b.Amount,
			Type:       b.Type,
			CategoryID: b.CategoryID,
		})
	}

	return out, nil
}

// ProjectInstallments expands every installment of d, whatever the horizon.
func ProjectInstallments(d InstallmentDebt) ([]Occurrence, error) {
	out := make([]Occurrence, 0, max(d.Installments, 0))
	amount := d.InstallmentAmount()

	for i := range d.Installments {
		month, err := AddMonths(d.FirstDueMonth, i)
		if err != nil {
			return nil, err
		}

		due, err := dueDate(month, d.DueDay)
		if err != nil {
			return nil, err
		}

		out = append(out, Occurrence{
			ID:         fmt.Sprintf("%s-%s-%d", KindInstallment, d.ID, i),
			Kind:       KindInstallment,
			SourceID:   d.ID,
			Name:       d.Name,
			Month:      month,
			Day:        due.Day(),
			Date:       due.Format(time.DateOnly),
			Amount:     amount,
			Type:       transaction.TypeExpense,
			CategoryID: d.CategoryID,
			Label:      fmt.Sprintf("%d/%d", i+1, d.Installments),
		})
	}

	return out, nil
}

// Upcoming lists the occurrences of the active expense fixed bills over the
// horizon plus every installment, ordered by month then day.
func Upcoming(fixed []*FixedBill, debts []*InstallmentDebt, start string, months int) ([]Occurrence, error) {
	var items []Occurrence

	for _, b := range fixed {
		if !b.Active || b.Type == transaction.TypeIncome {
			continue
		}

		occ, err := ProjectFixed(*b, start, months)
		if err != nil {
			return nil, fmt.Errorf("projecting fixed bill %s: %w", b.ID, err)
		}

		items = append(items, occ...)
	}

	for _, d := range debts {
		occ, err := ProjectInstallments(*d)
		if err != nil {
			return nil, fmt.Errorf("projecting installment debt %s: %w", d.ID, err)
		}

		items = append(items, occ...)
	}

	slices.SortStableFunc(items, func(a, b Occurrence) int {
		return cmp.Or(cmp.Compare(a.Month, b.Month), cmp.Compare(a.Day, b.Day))
	})

	if items == nil {
		items = []Occurrence{}
	}

	return items, nil
}

// MonthlyProjection builds one entry per month of the horizon. Occurrences whose
// ID is in paid are left out; income is the sum of the active fixed income bills.
func MonthlyProjection(fixed []*FixedBill, debts []*InstallmentDebt, paid []string, start string, months int) ([]MonthProjection, error) {
	items, err := Upcoming(fixed, debts, start, months)
	if err != nil {
		return nil, err
	}

	paidSet := make(map[string]struct{}, len(paid))
	for _, id := range paid {
		paidSet[id] = struct{}{}
	}

	byMonth := make(map[string][]Occurrence)

	for _, it := range items {
		if _, ok := paidSet[it.ID]; ok {
			continue
		}

		byMonth[it.Month] = append(byMonth[it.Month], it)
	}

	var income float64

	for _, b := range fixed {
		if b.Active && b.Type == transaction.TypeIncome {
			income += b.Amount
		}
	}

	out := make([]MonthProjection, 0, max(months, 0))

	for i := range months {
		month, err := AddMonths(start, i)
		if err != nil {
			return nil, err
		}

		p := MonthProjection{Month: month, Income: income, Items: byMonth[month]}
		if p.Items == nil {
			p.Items = []Occurrence{}
		}

		for _, it := range p.Items {
			p.Expense += it.Amount
		}

		p.Balance = p.Income - p.Expense
		out = append(out, p)
	}

	return out, nil
}
