package store

import (
	"context"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/goal"
)

// Document is the name of the goals document under the data root.
const Document = "goals.json"

type Store struct {
	docs *docstore.Store
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs}
}

func (s *Store) Load(_ context.Context) ([]*goal.Goal, error) {
	return docstore.Read(s.docs, Document, []*goal.Goal{}), nil
}

func (s *Store) Save(_ context.Context, goals []*goal.Goal) error {
	if goals == nil {
		goals = []*goal.Goal{}
	}

	return docstore.Write(s.docs, Document, goals)
}

func (s *Store) Lock() func() {
	return s.docs.Lock(Document)
}
