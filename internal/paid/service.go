// Package paid keeps the set of projected occurrence IDs confirmed as paid.
package paid

import (
	"context"
	"slices"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
)

const Document = "futureBillsPaid.json"

type Service struct {
	docs *docstore.Store
}

func NewService(docs *docstore.Store) *Service {
	return &Service{docs: docs}
}

// List returns the marked IDs. A missing or non-array document reads as empty.
func (s *Service) List(_ context.Context) ([]string, error) {
	return clean(docstore.Read(s.docs, Document, []string{})), nil
}

// SetAll replaces the whole set.
func (s *Service) SetAll(_ context.Context, ids []string) error {
	unlock := s.docs.Lock(Document)
	defer unlock()

	return docstore.Write(s.docs, Document, clean(ids))
}

// Toggle flips the membership of id and reports whether it is now marked.
// It is a read-modify-write of the whole set; another process writing the
// document in between would be overwritten.
func (s *Service) Toggle(_ context.Context, id string) (bool, error) {
	var marked bool

	_, err := docstore.Update(s.docs, Document, []string{}, func(ids []string) ([]string, error) {
		ids = clean(ids)

		if idx := slices.Index(ids, id); idx != -1 {
			return slices.Delete(ids, idx, idx+1), nil
		}

		marked = true

		return append(ids, id), nil
	})
	if err != nil {
		return false, err
	}

	return marked, nil
}

// clean drops duplicates while keeping first-seen order.
func clean(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
