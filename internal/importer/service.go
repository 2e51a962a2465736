package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/caixa/internal/importer/bankcsv"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// Suggester proposes a category ID for a description; empty means none.
type Suggester interface {
	Suggest(ctx context.Context, rawDescription string) (string, error)
}

type BatchCreator interface {
	CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Service struct {
	importers map[Bank]Importer
	matcher   Suggester
	txs       BatchCreator
}

func NewService(matcher Suggester, txs BatchCreator) *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankAuto:   bankcsv.NewParser(),
			BankCGD:    bankcsv.NewParser(string(BankCGD)),
			BankInter:  bankcsv.NewParser(string(BankInter)),
			BankNubank: bankcsv.NewParser(string(BankNubank)),
		},
		matcher: matcher,
		txs:     txs,
	}
}

// Parse reads a bank export without touching any document.
func (s *Service) Parse(bank Bank, r io.Reader) ([]transaction.CreateParams, error) {
	if bank == "" {
		bank = BankAuto
	}

	importer, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return importer.Parse(r)
}

// Preview parses r and fills the category of each row from the matching rules.
// A failed suggestion leaves the row uncategorised.
func (s *Service) Preview(ctx context.Context, bank Bank, r io.Reader) ([]transaction.CreateParams, error) {
	params, err := s.Parse(bank, r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		if params[i].CategoryID != "" {
			continue
		}

		categoryID, err := s.matcher.Suggest(ctx, params[i].Description)
		if err != nil {
			slog.Warn("failed to suggest category", "description", params[i].Description, "error", err)
			continue
		}

		params[i].CategoryID = categoryID
	}

	return params, nil
}

// Import previews r and adds every row to the ledger, stopping at the first failure.
func (s *Service) Import(ctx context.Context, bank Bank, r io.Reader) ([]*transaction.Transaction, error) {
	params, err := s.Preview(ctx, bank, r)
	if err != nil {
		return nil, err
	}

	return s.Confirm(ctx, params)
}

// Confirm adds reviewed rows to the ledger.
func (s *Service) Confirm(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	created, err := s.txs.CreateBatch(ctx, params)
	if err != nil {
		return created, fmt.Errorf("importing transactions: %w", err)
	}

	return created, nil
}
