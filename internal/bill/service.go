package bill

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

type Service struct {
	fixed *docstore.Collection[FixedBill]
	debts *docstore.Collection[InstallmentDebt]
	newID func() string
}

func NewService(docs *docstore.Store) *Service {
	return &Service{
		fixed: docstore.NewCollection(docs, FixedBillsDocument,
			func(b *FixedBill) string { return b.ID }, normalizeFixed),
		debts: docstore.NewCollection(docs, InstallmentDebtsDocument,
			func(d *InstallmentDebt) string { return d.ID }, normalizeDebt),
		newID: uuid.NewString,
	}
}

type FixedBillParams struct {
	Name       string
	Amount     float64
	Type       transaction.Type
	CategoryID string
	DueDay     int
	Active     bool
	TagIDs     []string
}

type FixedBillPatch struct {
	Name       *string
	Amount     *float64
	Type       *transaction.Type
	CategoryID *string
	DueDay     *int
	Active     *bool
	TagIDs     *[]string
}

func (p FixedBillPatch) apply(b *FixedBill) {
	if p.Name != nil {
		b.Name = *p.Name
	}

	if p.Amount != nil {
		b.Amount = *p.Amount
	}

	if p.Type != nil {
		b.Type = *p.Type
	}

	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}

	if p.DueDay != nil {
		b.DueDay = *p.DueDay
	}

	if p.Active != nil {
		b.Active = *p.Active
	}

	if p.TagIDs != nil {
		b.TagIDs = cloneTags(*p.TagIDs)
	}

	normalizeFixed(b)
}

type DebtParams struct {
	Name          string
	TotalAmount   float64
	Installments  int
	FirstDueMonth string
	DueDay        int
	CategoryID    string
	TagIDs        []string
}

type DebtPatch struct {
	Name          *string
	TotalAmount   *float64
	Installments  *int
	FirstDueMonth *string
	DueDay        *int
	CategoryID    *string
	TagIDs        *[]string
}

func (p DebtPatch) apply(d *InstallmentDebt) {
	if p.Name != nil {
		d.Name = *p.Name
	}

	if p.TotalAmount != nil {
		d.TotalAmount = *p.TotalAmount
	}

	if p.Installments != nil {
		d.Installments = *p.Installments
	}

	if p.FirstDueMonth != nil {
		d.FirstDueMonth = *p.FirstDueMonth
	}

	if p.DueDay != nil {
		d.DueDay = *p.DueDay
	}

	if p.CategoryID != nil {
		d.CategoryID = *p.CategoryID
	}

	if p.TagIDs != nil {
		d.TagIDs = cloneTags(*p.TagIDs)
	}
}

func (s *Service) FixedBills(_ context.Context) ([]*FixedBill, error) {
	return s.fixed.List(), nil
}

func (s *Service) AddFixedBill(_ context.Context, params FixedBillParams) (*FixedBill, error) {
	b := &FixedBill{
		ID:         s.newID(),
		Name:       params.Name,
		Amount:     params.Amount,
		Type:       params.Type,
		CategoryID: params.CategoryID,
		DueDay:     params.DueDay,
		Active:     params.Active,
		TagIDs:     cloneTags(params.TagIDs),
	}
	normalizeFixed(b)

	if err := b.validate(); err != nil {
		return nil, err
	}

	if err := s.fixed.Add(b); err != nil {
		return nil, fmt.Errorf("adding fixed bill: %w", err)
	}

	return b, nil
}

func (s *Service) UpdateFixedBill(_ context.Context, id string, patch FixedBillPatch) (*FixedBill, error) {
	b, err := s.fixed.Update(id, func(b *FixedBill) error {
		patch.apply(b)
		return b.validate()
	})

	return b, notFound(err)
}

func (s *Service) DeleteFixedBill(_ context.Context, id string) (bool, error) {
	return s.fixed.Delete(id)
}

func (s *Service) InstallmentDebts(_ context.Context) ([]*InstallmentDebt, error) {
	return s.debts.List(), nil
}

func (s *Service) AddInstallmentDebt(_ context.Context, params DebtParams) (*InstallmentDebt, error) {
	d := &InstallmentDebt{
		ID:            s.newID(),
		Name:          params.Name,
		TotalAmount:   params.TotalAmount,
		Installments:  params.Installments,
		FirstDueMonth: params.FirstDueMonth,
		DueDay:        params.DueDay,
		CategoryID:    params.CategoryID,
		TagIDs:        cloneTags(params.TagIDs),
	}

	if err := d.validate(); err != nil {
		return nil, err
	}

	if err := s.debts.Add(d); err != nil {
		return nil, fmt.Errorf("adding installment debt: %w", err)
	}

	return d, nil
}

func (s *Service) UpdateInstallmentDebt(_ context.Context, id string, patch DebtPatch) (*InstallmentDebt, error) {
	d, err := s.debts.Update(id, func(d *InstallmentDebt) error {
		patch.apply(d)
		return d.validate()
	})

	return d, notFound(err)
}

func (s *Service) DeleteInstallmentDebt(_ context.Context, id string) (bool, error) {
	return s.debts.Delete(id)
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNoItem) {
		return ErrNotFound
	}

	return err
}
