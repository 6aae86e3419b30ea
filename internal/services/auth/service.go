package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/textcompare/internal/dependencies/clock"
	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/storage"
)

// DefaultAdminUsername is the distinguished account allowed to refill credits
const DefaultAdminUsername = "admin"

// Config holds configuration for the auth service
type Config struct {
	// BcryptCost is the work factor for new password hashes
	BcryptCost int
	// InitialCredits is the balance granted at registration
	InitialCredits int
	// AdminUsernames lists the accounts whose password grants refill access
	AdminUsernames []string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost:     bcrypt.DefaultCost,
		InitialCredits: model.InitialCredits,
		AdminUsernames: []string{DefaultAdminUsername},
	}
}

// Service handles registration and credential verification
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	if cfg.InitialCredits == 0 {
		cfg.InitialCredits = defaults.InitialCredits
	}
	if len(cfg.AdminUsernames) == 0 {
		cfg.AdminUsernames = defaults.AdminUsernames
	}
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// Register creates a new account with the starting credit allowance.
// Admin usernames are reserved and reported as taken.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return model.ErrMissingInput
	}
	if s.IsAdmin(username) {
		return model.ErrAccountExists
	}

	if err := s.createAccount(ctx, username, password, s.cfg.InitialCredits); err != nil {
		return err
	}

	s.logger.Info("account registered", slog.String("username", username))
	return nil
}

// EnsureAdmin provisions an admin account with the given password if it does not exist yet
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return model.ErrMissingInput
	}
	if !s.IsAdmin(username) {
		return fmt.Errorf("%q is not a configured admin username", username)
	}

	err := s.createAccount(ctx, username, password, 0)
	if errors.Is(err, model.ErrAccountExists) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("admin account provisioned", slog.String("username", username))
	return nil
}

// Verify checks a plaintext password against the stored hash.
// A missing account is an error; a mismatch or malformed hash is false.
func (s *Service) Verify(ctx context.Context, username, password string) (bool, error) {
	account, err := s.storage.GetAccount(ctx, username)
	if err != nil {
		return false, err
	}

	// bcrypt compares the derived hashes in constant time
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// AuthorizeAdmin reports whether the password belongs to any configured admin account
func (s *Service) AuthorizeAdmin(ctx context.Context, password string) (bool, error) {
	for _, admin := range s.cfg.AdminUsernames {
		ok, err := s.Verify(ctx, admin, password)
		if errors.Is(err, model.ErrAccountNotFound) {
			continue
		}
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// IsAdmin reports whether the username is a configured admin identity
func (s *Service) IsAdmin(username string) bool {
	return slices.Contains(s.cfg.AdminUsernames, username)
}

// createAccount hashes the password with a fresh salt and inserts the account
func (s *Service) createAccount(ctx context.Context, username, password string, credits int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.storage.CreateAccount(ctx, &model.Account{
		Username:     username,
		PasswordHash: string(hash),
		Credits:      credits,
		CreatedAt:    s.clock.Now(),
	})
}
