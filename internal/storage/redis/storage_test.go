package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/textcompare/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) createAccount(username string, credits int) {
	err := s.storage.CreateAccount(s.ctx, &model.Account{
		Username:     username,
		PasswordHash: "hash123",
		Credits:      credits,
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
}

// Account tests

func (s *StorageSuite) TestCreateAndGetAccount() {
	s.createAccount("alice", 10)

	retrieved, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash123", retrieved.PasswordHash)
	s.Equal(10, retrieved.Credits)
	s.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), retrieved.CreatedAt)
}

func (s *StorageSuite) TestCreateAccountRejectsDuplicate() {
	s.createAccount("alice", 10)

	err := s.storage.CreateAccount(s.ctx, &model.Account{Username: "alice", PasswordHash: "other", Credits: 50})
	s.ErrorIs(err, model.ErrAccountExists)

	retrieved, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash123", retrieved.PasswordHash)
	s.Equal(10, retrieved.Credits)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountExists() {
	s.createAccount("alice", 10)

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.AccountExists(s.ctx, "nobody")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestAccountStoredAsHashWithoutTTL() {
	s.createAccount("alice", 10)

	s.Equal("10", s.mini.HGet(accountKey("alice"), fieldCredits))
	s.Equal(time.Duration(0), s.mini.TTL(accountKey("alice")), "Accounts should not expire")
}

// Credit tests

func (s *StorageSuite) TestGetCreditsNotFound() {
	_, err := s.storage.GetCredits(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestDebitCreditDecrements() {
	s.createAccount("alice", 2)

	ok, err := s.storage.DebitCredit(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(ok)

	credits, err := s.storage.GetCredits(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, credits)
}

func (s *StorageSuite) TestDebitCreditAtZeroDoesNothing() {
	s.createAccount("alice", 0)

	ok, err := s.storage.DebitCredit(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(ok)

	credits, _ := s.storage.GetCredits(s.ctx, "alice")
	s.Equal(0, credits)
}

func (s *StorageSuite) TestDebitCreditUnknownAccount() {
	_, err := s.storage.DebitCredit(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)

	exists, _ := s.storage.AccountExists(s.ctx, "nobody")
	s.False(exists)
}

func (s *StorageSuite) TestConcurrentDebitsNeverOverspend() {
	s.createAccount("alice", 3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.storage.DebitCredit(s.ctx, "alice")
			if err == nil && ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(3, successes)
	credits, _ := s.storage.GetCredits(s.ctx, "alice")
	s.Equal(0, credits)
}

func (s *StorageSuite) TestAddCredits() {
	s.createAccount("alice", 3)

	balance, err := s.storage.AddCredits(s.ctx, "alice", 5)
	s.Require().NoError(err)
	s.Equal(8, balance)
}

func (s *StorageSuite) TestAddCreditsRefusesToPassCeiling() {
	s.createAccount("alice", 10)

	_, err := s.storage.AddCredits(s.ctx, "alice", model.MaxCredits-9)
	s.ErrorIs(err, model.ErrCreditLimit)

	credits, err := s.storage.GetCredits(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(10, credits)

	balance, err := s.storage.AddCredits(s.ctx, "alice", model.MaxCredits-10)
	s.Require().NoError(err)
	s.Equal(model.MaxCredits, balance)
}

func (s *StorageSuite) TestAddCreditsUnknownAccountDoesNotCreate() {
	_, err := s.storage.AddCredits(s.ctx, "nobody", 5)
	s.ErrorIs(err, model.ErrAccountNotFound)

	exists, _ := s.storage.AccountExists(s.ctx, "nobody")
	s.False(exists)
}
