package refill

import (
	"context"
	"log/slog"

	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/services/auth"
	"github.com/mcoot/textcompare/internal/services/ledger"
	"github.com/mcoot/textcompare/internal/storage"
)

// Request is an admin refill of a target account
type Request struct {
	Username      string
	AdminPassword string
	Amount        int
}

// Service credits accounts on behalf of an administrator.
// The target's own password never authorizes a refill.
type Service struct {
	storage storage.Storage
	auth    *auth.Service
	ledger  *ledger.Ledger
	logger  *slog.Logger
}

// New creates a new refill Service
func New(storage storage.Storage, authService *auth.Service, ledger *ledger.Ledger, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		auth:    authService,
		ledger:  ledger,
		logger:  logger,
	}
}

// Refill adds Amount credits to the target account and returns the new balance
func (s *Service) Refill(ctx context.Context, req Request) (int, error) {
	if req.Username == "" || req.AdminPassword == "" {
		return 0, model.ErrMissingInput
	}
	if req.Amount <= 0 || req.Amount > model.MaxCredits {
		return 0, model.ErrInvalidAmount
	}

	exists, err := s.storage.AccountExists(ctx, req.Username)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, model.ErrAccountNotFound
	}

	authorized, err := s.auth.AuthorizeAdmin(ctx, req.AdminPassword)
	if err != nil {
		return 0, err
	}
	if !authorized {
		return 0, model.ErrWrongAdminPassword
	}

	balance, err := s.ledger.Credit(ctx, req.Username, req.Amount)
	if err != nil {
		return 0, err
	}

	s.logger.Info("credits refilled",
		slog.String("username", req.Username),
		slog.Int("amount", req.Amount),
		slog.Int("balance", balance),
	)
	return balance, nil
}
