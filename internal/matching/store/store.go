package store

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
)

const Document = "categoryRules.json"

type Store struct {
	docs *docstore.Store
	now  func() time.Time
}

func New(docs *docstore.Store) *Store {
	return &Store{docs: docs, now: time.Now}
}

// FindMatch picks the longest pattern contained in rawDescription, preferring
// the newest rule when lengths tie.
func (s *Store) FindMatch(_ context.Context, rawDescription string) (string, error) {
	raw := strings.ToLower(rawDescription)

	var best *matching.Rule

	for _, r := range s.load() {
		if r.Pattern == "" || !strings.Contains(raw, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || better(r, *best) {
			best = &r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.CategoryID, nil
}

func better(a, b matching.Rule) bool {
	return cmp.Or(
		cmp.Compare(len(a.Pattern), len(b.Pattern)),
		cmp.Compare(a.CreatedAt, b.CreatedAt),
	) > 0
}

// CreateMapping stores a rule, replacing any rule with the same pattern.
func (s *Store) CreateMapping(_ context.Context, rawPattern, categoryID string) error {
	rule := matching.Rule{
		Pattern:    rawPattern,
		CategoryID: categoryID,
		CreatedAt:  s.now().UTC().Format(time.RFC3339Nano),
	}

	_, err := docstore.Update(s.docs, Document, []matching.Rule{}, func(rules []matching.Rule) ([]matching.Rule, error) {
		for i, r := range rules {
			if strings.EqualFold(r.Pattern, rawPattern) {
				rules[i] = rule
				return rules, nil
			}
		}

		return append(rules, rule), nil
	})
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) Rules(_ context.Context) ([]matching.Rule, error) {
	return s.load(), nil
}

func (s *Store) load() []matching.Rule {
	return docstore.Read(s.docs, Document, []matching.Rule{})
}
