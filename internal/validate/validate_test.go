package validate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

func TestChecks(t *testing.T) {
	type testCase struct {
		name    string
		err     error
		wantErr error
	}

	tests := []testCase{
		{name: "PositiveOK", err: validate.Var("amount", 0.01, "gt=0")},
		{name: "Zero", err: validate.Var("amount", 0.0, "gt=0"), wantErr: validate.ErrNotPositive},
		{name: "Negative", err: validate.Var("amount", -5.0, "gt=0"), wantErr: validate.ErrNotPositive},
		{name: "NaN", err: validate.Var("amount", math.NaN(), "gt=0"), wantErr: validate.ErrNotPositive},
		{name: "DateOK", err: validate.Var("date", "2024-02-29", "datetime=2006-01-02")},
		{name: "DateImpossible", err: validate.Var("date", "2023-02-29", "datetime=2006-01-02"), wantErr: validate.ErrBadDate},
		{name: "DateWithTime", err: validate.Var("date", "2024-01-01T10:00:00Z", "datetime=2006-01-02"), wantErr: validate.ErrBadDate},
		{name: "MonthOK", err: validate.Month("firstDueMonth", "2025-01")},
		{name: "MonthBad", err: validate.Month("firstDueMonth", "2025-13"), wantErr: validate.ErrBadMonth},
		{name: "RangeOK", err: validate.Var("dueDay", 31, "min=1,max=31")},
		{name: "RangeLow", err: validate.Var("dueDay", 0, "min=1,max=31"), wantErr: validate.ErrOutOfRange},
		{name: "Required", err: validate.Var("categoryId", "", "required"), wantErr: validate.ErrRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				assert.NoError(t, tt.err)
				return
			}

			assert.ErrorIs(t, tt.err, tt.wantErr)
			assert.ErrorIs(t, tt.err, validate.ErrInvalid)

			var verr *validate.Error
			assert.True(t, errors.As(tt.err, &verr))
		})
	}
}

type entry struct {
	Date      string  `json:"date" validate:"datetime=2006-01-02"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Kind      string  `json:"type" validate:"oneof=income expense"`
	Repeat    *string `json:"recurring,omitempty" validate:"omitnil,oneof=weekly monthly"`
	DueDay    int     `json:"dueDay" validate:"min=1,max=31"`
	Untouched string
}

func TestStruct(t *testing.T) {
	valid := func() entry {
		return entry{Date: "2025-01-15", Amount: 10, Kind: "expense", DueDay: 5}
	}

	type testCase struct {
		name      string
		mutate    func(e *entry)
		wantField string
		wantErr   error
	}

	tests := []testCase{
		{name: "Valid", mutate: func(*entry) {}},
		{name: "ValidRecurring", mutate: func(e *entry) { e.Repeat = new("monthly") }},
		{name: "BadDate", mutate: func(e *entry) { e.Date = "15/01/2025" }, wantField: "date", wantErr: validate.ErrBadDate},
		{name: "ZeroAmount", mutate: func(e *entry) { e.Amount = 0 }, wantField: "amount", wantErr: validate.ErrNotPositive},
		{name: "BadType", mutate: func(e *entry) { e.Kind = "transfer" }, wantField: "type", wantErr: validate.ErrNotAllowed},
		{name: "BadRecurring", mutate: func(e *entry) { e.Repeat = new("yearly") }, wantField: "recurring", wantErr: validate.ErrNotAllowed},
		{name: "DueDayHigh", mutate: func(e *entry) { e.DueDay = 32 }, wantField: "dueDay", wantErr: validate.ErrOutOfRange},
		{
			name:      "FirstFailureWins",
			mutate:    func(e *entry) { e.Date = ""; e.Amount = -1 },
			wantField: "date",
			wantErr:   validate.ErrBadDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(&e)

			err := validate.Struct(&e)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, validate.ErrInvalid)

			var verr *validate.Error
			if assert.True(t, errors.As(err, &verr)) {
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}
}
