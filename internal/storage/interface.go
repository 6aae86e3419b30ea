package storage

import (
	"context"

	"github.com/mcoot/textcompare/internal/model"
)

// Storage defines the interface for account persistence.
// Credit mutations must be atomic per username: implementations never expose
// a read-modify-write window to concurrent callers.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, username string) (*model.Account, error)
	AccountExists(ctx context.Context, username string) (bool, error)

	// Credit operations
	GetCredits(ctx context.Context, username string) (int, error)
	DebitCredit(ctx context.Context, username string) (bool, error)
	AddCredits(ctx context.Context, username string, amount int) (int, error)

	// Close releases any underlying connections
	Close() error
}
