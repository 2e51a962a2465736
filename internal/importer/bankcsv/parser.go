// Package bankcsv reads bank CSV exports into transaction params.
package bankcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/caixa/internal/encoding"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// ErrNoProfile is returned when no header row matches a known layout.
var ErrNoProfile = errors.New("no matching bank CSV format found")

// Parser auto-detects the export layout by matching header rows against the
// profiles of its banks.
type Parser struct {
	profiles []Profile
}

// NewParser returns a parser restricted to the given banks, or to every known
// bank when none are given.
func NewParser(banks ...string) *Parser {
	if len(banks) == 0 {
		return &Parser{profiles: profiles}
	}

	var selected []Profile

	for _, p := range profiles {
		if slices.Contains(banks, p.Bank) {
			selected = append(selected, p)
		}
	}

	return &Parser{profiles: selected}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readRows(raw, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := p.detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	}

	return nil, ErrNoProfile
}

func readRows(raw []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a profile using comma.
func (p *Parser) detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if p.profiles[i].Comma == comma && matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a date or amount, such as footers and page breaks.
// headerRowNum is the 0-based index of the header, used in error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	txs := make([]transaction.CreateParams, 0, len(rows))

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		txs = append(txs, transaction.CreateParams{
			Date:        date.Format(time.DateOnly),
			Description: desc,
			Amount:      amount.InexactFloat64(),
			Type:        txType,
			TagIDs:      []string{},
		})
	}

	return txs, nil
}

func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return singleAmount(row, cols[p.AmountCol], p.DecimalComma, p.ChargesPositive)
	case amountSplit:
		return splitAmount(row, cols[p.DebitCol], cols[p.CreditCol], p.DecimalComma)
	}

	return decimal.Zero, "", false
}

func singleAmount(row []string, idx int, decimalComma, chargesPositive bool) (decimal.Decimal, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseAmount(s, decimalComma)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if chargesPositive {
		d = d.Neg()
	}

	if d.IsNegative() {
		return d.Abs(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

func splitAmount(row []string, debitIdx, creditIdx int, decimalComma bool) (decimal.Decimal, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseAmount(s, decimalComma)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseAmount(s, decimalComma)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
