package transaction

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

// loadConcurrency bounds how many month documents List reads at once.
const loadConcurrency = 8

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// LoadMonth returns the transactions of one month document; a missing document is empty.
	LoadMonth(ctx context.Context, month string) ([]*Transaction, error)
	SaveMonth(ctx context.Context, month string, txs []*Transaction) error
	// Months lists the month keys that have a document, in any order.
	Months(ctx context.Context) ([]string, error)
	// Lock holds the given month documents until the returned func is called.
	Lock(months ...string) func()
}

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string

	// scan serialises operations that look a transaction up across months before writing.
	scan sync.Mutex
}

type Option func(*Service)

// WithClock replaces the wall clock used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Date        string
	Description string
	Amount      float64
	Type        Type
	CategoryID  string
	TagIDs      []string
	Recurring   *Recurrence
}

// Patch lists the fields to overwrite; nil fields are left alone.
type Patch struct {
	Date           *string
	Description    *string
	Amount         *float64
	Type           *Type
	CategoryID     *string
	TagIDs         *[]string
	Recurring      *Recurrence
	ClearRecurring bool
}

// BulkPatch is the subset of Patch allowed in bulk edits.
type BulkPatch struct {
	CategoryID *string
	TagIDs     *[]string
}

func (p Patch) apply(tx *Transaction) {
	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Description != nil {
		tx.Description = *p.Description
	}

	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.CategoryID != nil {
		tx.CategoryID = *p.CategoryID
	}

	if p.TagIDs != nil {
		tx.TagIDs = slices.Clone(*p.TagIDs)
		if tx.TagIDs == nil {
			tx.TagIDs = []string{}
		}
	}

	if p.Recurring != nil {
		r := *p.Recurring
		tx.Recurring = &r
	}

	if p.ClearRecurring {
		tx.Recurring = nil
	}
}

// List returns the transactions of month, or of every month when month is empty,
// most recent first.
func (s *Service) List(ctx context.Context, month string) ([]*Transaction, error) {
	if month != "" {
		if err := validate.Month("month", month); err != nil {
			return nil, err
		}

		txs, err := s.repo.LoadMonth(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("loading month %s: %w", month, err)
		}

		SortByDateDesc(txs)

		return txs, nil
	}

	months, err := s.repo.Months(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing months: %w", err)
	}

	shards := make([][]*Transaction, len(months))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, m := range months {
		g.Go(func() error {
			txs, err := s.repo.LoadMonth(gctx, m)
			if err != nil {
				return fmt.Errorf("loading month %s: %w", m, err)
			}

			shards[i] = txs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]*Transaction, 0)
	for _, shard := range shards {
		all = append(all, shard...)
	}

	SortByDateDesc(all)

	return all, nil
}

// Months returns the month keys that have a document, most recent first.
func (s *Service) Months(ctx context.Context) ([]string, error) {
	months, err := s.repo.Months(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing months: %w", err)
	}

	slices.Sort(months)
	slices.Reverse(months)

	return months, nil
}

func (s *Service) Add(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := (&Transaction{
		ID:          s.newID(),
		Date:        params.Date,
		Description: params.Description,
		Amount:      params.Amount,
		Type:        params.Type,
		CategoryID:  params.CategoryID,
		TagIDs:      params.TagIDs,
		Recurring:   params.Recurring,
		CreatedAt:   s.now().UTC().Format(time.RFC3339Nano),
	}).clone()

	if err := tx.validate(); err != nil {
		return nil, err
	}

	month, err := MonthKey(tx.Date)
	if err != nil {
		return nil, err
	}

	unlock := s.repo.Lock(month)
	defer unlock()

	if err := s.insert(ctx, month, tx); err != nil {
		return nil, err
	}

	return tx.clone(), nil
}

// CreateBatch adds each params in order and stops at the first failure,
// returning what was created so far.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	created := make([]*Transaction, 0, len(params))

	for i, p := range params {
		tx, err := s.Add(ctx, p)
		if err != nil {
			return created, fmt.Errorf("creating transaction %d: %w", i, err)
		}

		created = append(created, tx)
	}

	return created, nil
}

// Get finds a transaction by ID in whichever month holds it.
func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	tx, _, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// Update merges patch into the transaction with the given ID. When the date moves
// to another month, the record is written to the new month document first and then
// removed from the old one, so an interrupted move leaves a duplicate, never a loss.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Transaction, error) {
	s.scan.Lock()
	defer s.scan.Unlock()

	current, oldMonth, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.clone()
	patch.apply(updated)

	if err := updated.validate(); err != nil {
		return nil, err
	}

	newMonth, err := MonthKey(updated.Date)
	if err != nil {
		return nil, err
	}

	unlock := s.repo.Lock(oldMonth, newMonth)
	defer unlock()

	if newMonth == oldMonth {
		if err := s.replace(ctx, oldMonth, updated); err != nil {
			return nil, err
		}

		return updated.clone(), nil
	}

	if err := s.insert(ctx, newMonth, updated); err != nil {
		return nil, err
	}

	if _, err := s.remove(ctx, oldMonth, id); err != nil {
		return nil, err
	}

	return updated.clone(), nil
}

// UpdateBulk applies patch to each ID independently. It is not atomic: the count
// of successful updates is returned and failures for single IDs do not stop the rest.
// The error reports the first failure other than a missing ID.
func (s *Service) UpdateBulk(ctx context.Context, ids []string, patch BulkPatch) (int, error) {
	var (
		count    int
		firstErr error
	)

	for _, id := range ids {
		_, err := s.Update(ctx, id, Patch{CategoryID: patch.CategoryID, TagIDs: patch.TagIDs})
		if err == nil {
			count++
			continue
		}

		if firstErr == nil && !isNotFound(err) {
			firstErr = fmt.Errorf("updating %s: %w", id, err)
		}
	}

	return count, firstErr
}

// Delete removes the transaction with the given ID. It returns false, and writes
// nothing, when no month holds it.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	s.scan.Lock()
	defer s.scan.Unlock()

	_, month, err := s.find(ctx, id)
	if isNotFound(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	unlock := s.repo.Lock(month)
	defer unlock()

	return s.remove(ctx, month, id)
}

// Summary totals one month, or every month when Month is empty.
type Summary struct {
	Month             string             `json:"month,omitempty"`
	Income            float64            `json:"income"`
	Expense           float64            `json:"expense"`
	Balance           float64            `json:"balance"`
	ExpenseByCategory map[string]float64 `json:"expenseByCategory"`
	Count             int                `json:"count"`
}

func (s *Service) Summarize(ctx context.Context, month string) (*Summary, error) {
	txs, err := s.List(ctx, month)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Month: month, ExpenseByCategory: map[string]float64{}, Count: len(txs)}

	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			sum.Income += tx.Amount
		case TypeExpense:
			sum.Expense += tx.Amount
			sum.ExpenseByCategory[tx.CategoryID] += tx.Amount
		}
	}

	sum.Balance = sum.Income - sum.Expense

	return sum, nil
}

func (s *Service) find(ctx context.Context, id string) (*Transaction, string, error) {
	all, err := s.List(ctx, "")
	if err != nil {
		return nil, "", err
	}

	for _, tx := range all {
		if tx.ID != id {
			continue
		}

		month, err := MonthKey(tx.Date)
		if err != nil {
			return nil, "", fmt.Errorf("stored transaction %s: %w", id, err)
		}

		return tx, month, nil
	}

	return nil, "", ErrNotFound
}

// insert, replace and remove expect the caller to hold the month lock.

func (s *Service) insert(ctx context.Context, month string, tx *Transaction) error {
	txs, err := s.repo.LoadMonth(ctx, month)
	if err != nil {
		return fmt.Errorf("loading month %s: %w", month, err)
	}

	txs = append(txs, tx)
	SortByDateDesc(txs)

	if err := s.repo.SaveMonth(ctx, month, txs); err != nil {
		return fmt.Errorf("saving month %s: %w", month, err)
	}

	return nil
}

func (s *Service) replace(ctx context.Context, month string, tx *Transaction) error {
	txs, err := s.repo.LoadMonth(ctx, month)
	if err != nil {
		return fmt.Errorf("loading month %s: %w", month, err)
	}

	idx := slices.IndexFunc(txs, func(t *Transaction) bool { return t.ID == tx.ID })
	if idx == -1 {
		return ErrNotFound
	}

	txs[idx] = tx
	SortByDateDesc(txs)

	if err := s.repo.SaveMonth(ctx, month, txs); err != nil {
		return fmt.Errorf("saving month %s: %w", month, err)
	}

	return nil
}

func (s *Service) remove(ctx context.Context, month, id string) (bool, error) {
	txs, err := s.repo.LoadMonth(ctx, month)
	if err != nil {
		return false, fmt.Errorf("loading month %s: %w", month, err)
	}

	before := len(txs)

	kept := slices.DeleteFunc(txs, func(t *Transaction) bool { return t.ID == id })
	if len(kept) == before {
		return false, nil
	}

	if err := s.repo.SaveMonth(ctx, month, kept); err != nil {
		return false, fmt.Errorf("saving month %s: %w", month, err)
	}

	return true, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
