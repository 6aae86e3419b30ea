package memory

import (
	"context"
	"sync"

	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts: make(map[string]*model.Account),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Username]; ok {
		return model.ErrAccountExists
	}
	stored := *account
	s.accounts[account.Username] = &stored
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	result := *account
	return &result, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[username]
	return ok, nil
}

// Credit operations

func (s *Storage) GetCredits(ctx context.Context, username string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[username]
	if !ok {
		return 0, model.ErrAccountNotFound
	}
	return account.Credits, nil
}

func (s *Storage) DebitCredit(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[username]
	if !ok {
		return false, model.ErrAccountNotFound
	}
	if account.Credits < 1 {
		return false, nil
	}
	account.Credits--
	return true, nil
}

func (s *Storage) AddCredits(ctx context.Context, username string, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[username]
	if !ok {
		return 0, model.ErrAccountNotFound
	}
	if amount > model.MaxCredits-account.Credits {
		return 0, model.ErrCreditLimit
	}
	account.Credits += amount
	return account.Credits, nil
}

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}
