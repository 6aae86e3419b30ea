package ledger

import (
	"context"

	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/storage"
)

// Ledger reads and mutates account credit balances.
// Every mutation is a single atomic storage primitive.
type Ledger struct {
	storage storage.Storage
}

// New creates a new Ledger
func New(storage storage.Storage) *Ledger {
	return &Ledger{storage: storage}
}

// Balance returns the current credit balance
func (l *Ledger) Balance(ctx context.Context, username string) (int, error) {
	return l.storage.GetCredits(ctx, username)
}

// TryDebit spends one credit if the balance allows it and reports whether it did
func (l *Ledger) TryDebit(ctx context.Context, username string) (bool, error) {
	return l.storage.DebitCredit(ctx, username)
}

// Credit adds amount to the balance and returns the new balance.
// A balance is never taken past model.MaxCredits.
func (l *Ledger) Credit(ctx context.Context, username string, amount int) (int, error) {
	if amount < 0 || amount > model.MaxCredits {
		return 0, model.ErrInvalidAmount
	}
	return l.storage.AddCredits(ctx, username, amount)
}
