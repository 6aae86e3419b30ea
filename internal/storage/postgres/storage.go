package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/storage"
)

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	username      TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	credits       INTEGER NOT NULL CHECK (credits >= 0),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// uniqueViolation is the SQLSTATE for a duplicate primary key
const uniqueViolation = "23505"

// Storage is a PostgreSQL-backed implementation of the storage interface.
// Credit changes are single conditional UPDATE statements, so the row lock
// taken by Postgres serializes concurrent debits for the same username.
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and ensures the accounts table exists
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewWithPool(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool creates a PostgreSQL storage with an existing pool
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Migrate creates the accounts table if it does not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (username, password_hash, credits, created_at) VALUES ($1, $2, $3, $4)`,
		account.Username, account.PasswordHash, account.Credits, account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAccountExists
		}
		return err
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	account := &model.Account{}
	err := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, credits, created_at FROM accounts WHERE username = $1`,
		username,
	).Scan(&account.Username, &account.PasswordHash, &account.Credits, &account.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return account, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// Credit operations

func (s *Storage) GetCredits(ctx context.Context, username string) (int, error) {
	var credits int
	err := s.pool.QueryRow(ctx,
		`SELECT credits FROM accounts WHERE username = $1`,
		username,
	).Scan(&credits)
	if err != nil {
		return 0, notFound(err)
	}
	return credits, nil
}

func (s *Storage) DebitCredit(ctx context.Context, username string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET credits = credits - 1, updated_at = now() WHERE username = $1 AND credits >= 1`,
		username,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing updated: either the balance is exhausted or the account is gone
	exists, err := s.AccountExists(ctx, username)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, model.ErrAccountNotFound
	}
	return false, nil
}

func (s *Storage) AddCredits(ctx context.Context, username string, amount int) (int, error) {
	var balance int
	err := s.pool.QueryRow(ctx,
		`UPDATE accounts SET credits = credits + $2::bigint, updated_at = now()
		 WHERE username = $1 AND credits + $2::bigint <= $3::bigint
		 RETURNING credits`,
		username, amount, model.MaxCredits,
	).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// Nothing updated: either the ceiling would be passed or the account is gone
	exists, err := s.AccountExists(ctx, username)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, model.ErrAccountNotFound
	}
	return 0, model.ErrCreditLimit
}

// notFound maps pgx.ErrNoRows to model.ErrAccountNotFound
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrAccountNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
