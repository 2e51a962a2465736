// Package matching suggests a category for an imported description from
// rules learned while reviewing earlier imports.
package matching

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

// Rule maps every description containing Pattern, case-insensitively, to CategoryID.
type Rule struct {
	Pattern    string `json:"pattern"`
	CategoryID string `json:"categoryId"`
	CreatedAt  string `json:"createdAt"`
}

type Repository interface {
	FindMatch(ctx context.Context, rawDescription string) (string, error)
	CreateMapping(ctx context.Context, rawPattern, categoryID string) error
	Rules(ctx context.Context) ([]Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the best rule for rawDescription, or an
// empty string when no rule matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, rawDescription)
}

type learnRequest struct {
	Pattern    string `json:"pattern" validate:"required"`
	CategoryID string `json:"categoryId" validate:"required"`
}

// Learn remembers that descriptions containing rawPattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, rawPattern, categoryID string) error {
	rawPattern = strings.TrimSpace(rawPattern)

	rule := learnRequest{Pattern: rawPattern, CategoryID: categoryID}
	if err := validate.Struct(rule); err != nil {
		return err
	}

	return s.repo.CreateMapping(ctx, rawPattern, categoryID)
}

func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	return s.repo.Rules(ctx)
}
