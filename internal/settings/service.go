package settings

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
)

const document = "settings.json"

type Service struct {
	docs *docstore.Store
}

func NewService(docs *docstore.Store) *Service {
	return &Service{docs: docs}
}

// Get returns the stored settings, or the defaults when the document is missing or corrupt.
func (s *Service) Get(_ context.Context) (AppSettings, error) {
	return docstore.Read(s.docs, document, Defaults()).normalize(), nil
}

// Save replaces the stored settings.
func (s *Service) Save(_ context.Context, st AppSettings) error {
	unlock := s.docs.Lock(document)
	defer unlock()

	if err := docstore.Write(s.docs, document, st.normalize()); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
