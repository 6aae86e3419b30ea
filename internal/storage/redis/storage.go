package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each account is one hash; every credit mutation runs as a Lua script so
// the check and the write happen in a single Redis command.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	created, err := createAccountScript.Run(ctx, s.client,
		[]string{accountKey(account.Username)},
		account.PasswordHash,
		account.Credits,
		account.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return model.ErrAccountExists
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	fields, err := s.client.HGetAll(ctx, accountKey(username)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrAccountNotFound
	}

	credits, err := strconv.Atoi(fields[fieldCredits])
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: fields[fieldPasswordHash],
		Credits:      credits,
	}
	if raw := fields[fieldCreatedAt]; raw != "" {
		if createdAt, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			account.CreatedAt = createdAt
		}
	}
	return account, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.client.Exists(ctx, accountKey(username)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Credit operations

func (s *Storage) GetCredits(ctx context.Context, username string) (int, error) {
	credits, err := s.client.HGet(ctx, accountKey(username), fieldCredits).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrAccountNotFound
		}
		return 0, err
	}
	return credits, nil
}

func (s *Storage) DebitCredit(ctx context.Context, username string) (bool, error) {
	result, err := debitScript.Run(ctx, s.client, []string{accountKey(username)}).Int()
	if err != nil {
		return false, err
	}

	switch result {
	case -1:
		return false, model.ErrAccountNotFound
	case 0:
		return false, nil
	default:
		return true, nil
	}
}

func (s *Storage) AddCredits(ctx context.Context, username string, amount int) (int, error) {
	balance, err := addCreditsScript.Run(ctx, s.client, []string{accountKey(username)}, amount, model.MaxCredits).Int()
	if err != nil {
		return 0, err
	}
	switch balance {
	case -1:
		return 0, model.ErrAccountNotFound
	case -2:
		return 0, model.ErrCreditLimit
	}
	return balance, nil
}
