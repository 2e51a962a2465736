package store

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

// monthFile matches month documents strictly: data/YYYY-MM.json.
var monthFile = regexp.MustCompile(`^\d{4}-\d{2}\.json$`)

// Store keeps one JSON document per calendar month under the data directory.
type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

func monthDoc(month string) string {
	return path.Join(docstore.DataDir, month+".json")
}

func (s *Store) LoadMonth(_ context.Context, month string) ([]*transaction.Transaction, error) {
	txs := docstore.Read(s.docs, monthDoc(month), []*transaction.Transaction{})

	// Drop null entries and fill fields older documents may lack.
	out := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if tx == nil {
			continue
		}

		if tx.TagIDs == nil {
			tx.TagIDs = []string{}
		}

		out = append(out, tx)
	}

	return out, nil
}

func (s *Store) SaveMonth(_ context.Context, month string, txs []*transaction.Transaction) error {
	if txs == nil {
		txs = []*transaction.Transaction{}
	}

	if err := docstore.Write(s.docs, monthDoc(month), txs); err != nil {
		return fmt.Errorf("writing month %s: %w", month, err)
	}

	return nil
}

// Months derives month keys from file names only; contents are not read.
func (s *Store) Months(_ context.Context) ([]string, error) {
	names, err := s.docs.List(docstore.DataDir, monthFile)
	if err != nil {
		return nil, err
	}

	months := make([]string, 0, len(names))
	for _, n := range names {
		months = append(months, strings.TrimSuffix(n, ".json"))
	}

	return months, nil
}

func (s *Store) Lock(months ...string) func() {
	names := make([]string, 0, len(months))
	for _, m := range months {
		names = append(names, monthDoc(m))
	}

	return s.docs.Lock(names...)
}
