package goal

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/caixa/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	Load(ctx context.Context) ([]*Goal, error)
	Save(ctx context.Context, goals []*Goal) error
	// Lock holds the goals document until the returned func is called.
	Lock() func()
}

// TransactionCreator is the part of the transaction ledger goals write to.
type TransactionCreator interface {
	Add(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Service struct {
	repo  Repository
	txs   TransactionCreator
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo Repository, txs TransactionCreator, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		txs:   txs,
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      string
}

// Patch lists the fields to overwrite. CurrentAmount overrides the balance
// without touching the deposit history. An empty CompletedAt reopens the goal.
type Patch struct {
	Name          *string
	TargetAmount  *float64
	CurrentAmount *float64
	Deadline      *string
	CompletedAt   *string
}

func (p Patch) apply(g *Goal) {
	if p.Name != nil {
		g.Name = *p.Name
	}

	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}

	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}

	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}

	if p.CompletedAt != nil {
		g.CompletedAt = *p.CompletedAt
	}
}

type DepositOptions struct {
	CreateExpenseTransaction bool
	ExpenseCategoryID        string
}

type PaidOptions struct {
	CreateInvestmentTransaction bool
	InvestmentCategoryID        string
}

// Result is the outcome of an operation that may spawn a linked transaction.
// With Link == LinkPending the goal is persisted but does not reference Transaction.
type Result struct {
	Goal        *Goal
	Transaction *transaction.Transaction
	Link        LinkState
}

func (s *Service) List(ctx context.Context) ([]*Goal, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Goal, 0, len(goals))
	for _, g := range goals {
		out = append(out, g.clone())
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Goal, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(goals, id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	return goals[idx].clone(), nil
}

func (s *Service) Add(ctx context.Context, params CreateParams) (*Goal, error) {
	g := &Goal{
		ID:             s.newID(),
		Name:           params.Name,
		TargetAmount:   params.TargetAmount,
		CurrentAmount:  params.CurrentAmount,
		Deadline:       params.Deadline,
		DepositHistory: []Deposit{},
	}

	if err := g.validate(); err != nil {
		return nil, err
	}

	unlock := s.repo.Lock()
	defer unlock()

	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, append(goals, g)); err != nil {
		return nil, err
	}

	return g.clone(), nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Goal, error) {
	unlock := s.repo.Lock()
	defer unlock()

	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(goals, id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	updated := goals[idx].clone()
	patch.apply(updated)

	if err := updated.validate(); err != nil {
		return nil, err
	}

	goals[idx] = updated

	if err := s.save(ctx, goals); err != nil {
		return nil, err
	}

	return updated.clone(), nil
}

// Delete removes a goal. Transactions created by its deposits are kept.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	unlock := s.repo.Lock()
	defer unlock()

	goals, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	idx := indexOf(goals, id)
	if idx == -1 {
		return false, nil
	}

	if err := s.save(ctx, slices.Delete(goals, idx, idx+1)); err != nil {
		return false, err
	}

	return true, nil
}

// Deposit adds amount to the goal in up to three steps: the deposit is recorded and
// persisted, then the expense transaction is created, then the deposit is linked to it
// and persisted again. A failure after the first step returns the partial Result with
// Link == LinkPending and an error wrapping ErrLinkPending.
func (s *Service) Deposit(ctx context.Context, id string, amount float64, opts DepositOptions) (*Result, error) {
	if !(amount > 0) {
		return nil, ErrNotFound
	}

	unlock := s.repo.Lock()
	defer unlock()

	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(goals, id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	g := goals[idx]
	g.DepositHistory = append(g.DepositHistory, Deposit{Date: s.today(), Amount: amount})
	g.CurrentAmount += amount
	entry := len(g.DepositHistory) - 1

	if err := s.save(ctx, goals); err != nil {
		return nil, err
	}

	res := &Result{Goal: g.clone(), Link: LinkNone}

	if !opts.CreateExpenseTransaction || opts.ExpenseCategoryID == "" {
		return res, nil
	}

	res.Link = LinkPending

	tx, err := s.txs.Add(ctx, transaction.CreateParams{
		Date:        g.DepositHistory[entry].Date,
		Description: "Depósito para meta: " + g.Name,
		Amount:      amount,
		Type:        transaction.TypeExpense,
		CategoryID:  opts.ExpenseCategoryID,
	})
	if err != nil {
		return res, fmt.Errorf("%w: creating deposit transaction: %w", ErrLinkPending, err)
	}

	res.Transaction = tx
	g.DepositHistory[entry].TransactionID = tx.ID

	if err := s.save(ctx, goals); err != nil {
		return res, fmt.Errorf("%w: %w", ErrLinkPending, err)
	}

	res.Goal = g.clone()
	res.Link = LinkDone

	return res, nil
}

// MarkAsPaid completes the goal and optionally records one expense transaction for
// its whole current amount, following the same linking steps as Deposit.
// A goal that is already completed is returned as stored and nothing is written.
func (s *Service) MarkAsPaid(ctx context.Context, id string, opts PaidOptions) (*Result, error) {
	unlock := s.repo.Lock()
	defer unlock()

	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(goals, id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	g := goals[idx]
	if g.Completed() {
		res := &Result{Goal: g.clone(), Link: LinkNone}
		if g.CompletionTransactionID != "" {
			res.Link = LinkDone
		}

		return res, nil
	}

	now := s.now()
	g.CompletedAt = now.UTC().Format(time.RFC3339)

	if err := s.save(ctx, goals); err != nil {
		return nil, err
	}

	res := &Result{Goal: g.clone(), Link: LinkNone}

	if !opts.CreateInvestmentTransaction || opts.InvestmentCategoryID == "" || g.CurrentAmount <= 0 {
		return res, nil
	}

	res.Link = LinkPending

	tx, err := s.txs.Add(ctx, transaction.CreateParams{
		Date:        now.Format(time.DateOnly),
		Description: "Meta concluída: " + g.Name,
		Amount:      g.CurrentAmount,
		Type:        transaction.TypeExpense,
		CategoryID:  opts.InvestmentCategoryID,
	})
	if err != nil {
		return res, fmt.Errorf("%w: creating completion transaction: %w", ErrLinkPending, err)
	}

	res.Transaction = tx
	g.CompletionTransactionID = tx.ID

	if err := s.save(ctx, goals); err != nil {
		return res, fmt.Errorf("%w: %w", ErrLinkPending, err)
	}

	res.Goal = g.clone()
	res.Link = LinkDone

	return res, nil
}

func (s *Service) today() string {
	return s.now().Format(time.DateOnly)
}

// load reads the goals document and fills in deposit histories older records lack.
func (s *Service) load(ctx context.Context) ([]*Goal, error) {
	goals, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	goals = slices.DeleteFunc(goals, func(g *Goal) bool { return g == nil })

	for _, g := range goals {
		if g.DepositHistory == nil {
			g.DepositHistory = []Deposit{}
		}
	}

	return goals, nil
}

func (s *Service) save(ctx context.Context, goals []*Goal) error {
	if err := s.repo.Save(ctx, goals); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}

	return nil
}

func indexOf(goals []*Goal, id string) int {
	return slices.IndexFunc(goals, func(g *Goal) bool { return g.ID == id })
}
