package transaction

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

// ErrNotFound is returned when no month document holds the requested ID.
var ErrNotFound = errors.New("transaction not found")

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Recurrence marks a transaction the user flagged as repeating.
type Recurrence string

const (
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Transaction is stored in the month document matching the year-month of Date.
type Transaction struct {
	ID          string      `json:"id"`
	Date        string      `json:"date" validate:"datetime=2006-01-02"`
	Description string      `json:"description"`
	Amount      float64     `json:"amount" validate:"gt=0"`
	Type        Type        `json:"type" validate:"oneof=income expense"`
	CategoryID  string      `json:"categoryId"`
	TagIDs      []string    `json:"tagIds"`
	Recurring   *Recurrence `json:"recurring,omitempty" validate:"omitnil,oneof=weekly monthly"`
	CreatedAt   string      `json:"createdAt,omitempty"`
}

// MonthKey returns the YYYY-MM shard key of a YYYY-MM-DD date.
// The key is cut from the calendar date itself, so it never shifts with the local time zone.
func MonthKey(date string) (string, error) {
	d, err := time.Parse(validate.DateLayout, date)
	if err != nil {
		return "", &validate.Error{Field: "date", Err: validate.ErrBadDate}
	}

	return d.Format("2006-01"), nil
}

func (t *Transaction) validate() error {
	return validate.Struct(t)
}

func (t *Transaction) clone() *Transaction {
	c := *t
	c.TagIDs = slices.Clone(t.TagIDs)

	if c.TagIDs == nil {
		c.TagIDs = []string{}
	}

	if t.Recurring != nil {
		r := *t.Recurring
		c.Recurring = &r
	}

	return &c
}

// SortByDateDesc orders txs most recent first. Equal dates keep their relative order.
func SortByDateDesc(txs []*Transaction) {
	slices.SortStableFunc(txs, func(a, b *Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})
}
