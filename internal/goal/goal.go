package goal

import (
	"errors"
	"slices"

	"github.com/MrJamesThe3rd/caixa/internal/validate"
)

var (
	// ErrNotFound is also returned for deposits of a non-positive amount, which are ignored.
	ErrNotFound = errors.New("goal not found")
	// ErrLinkPending means the goal change was persisted but its transaction link was not.
	ErrLinkPending = errors.New("goal transaction link pending")
)

// LinkState tracks the cross-reference between a goal change and the transaction it spawns.
type LinkState int

const (
	// LinkNone means no transaction was requested.
	LinkNone LinkState = iota
	// LinkPending means the goal was written without its transaction id.
	LinkPending
	LinkDone
)

func (l LinkState) String() string {
	switch l {
	case LinkNone:
		return "none"
	case LinkPending:
		return "pending"
	case LinkDone:
		return "done"
	}

	return "unknown"
}

// Deposit is one entry of a goal's append-only history.
type Deposit struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId,omitempty"`
}

type Goal struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name" validate:"required"`
	TargetAmount            float64   `json:"targetAmount" validate:"gt=0"`
	CurrentAmount           float64   `json:"currentAmount" validate:"gte=0"`
	Deadline                string    `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	DepositHistory          []Deposit `json:"depositHistory"`
	CompletedAt             string    `json:"completedAt,omitempty"`
	CompletionTransactionID string    `json:"completionTransactionId,omitempty"`
}

// Completed reports whether the goal was marked as paid.
func (g *Goal) Completed() bool {
	return g.CompletedAt != ""
}

// Progress returns currentAmount/targetAmount, capped at 1.
func (g *Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}

	return min(g.CurrentAmount/g.TargetAmount, 1)
}

func (g *Goal) clone() *Goal {
	c := *g
	c.DepositHistory = slices.Clone(g.DepositHistory)

	if c.DepositHistory == nil {
		c.DepositHistory = []Deposit{}
	}

	return &c
}

func (g *Goal) validate() error {
	return validate.Struct(g)
}
