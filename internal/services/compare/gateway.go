package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/services/auth"
	"github.com/mcoot/textcompare/internal/services/ledger"
	"github.com/mcoot/textcompare/internal/services/scoring"
)

// Request is one metered comparison
type Request struct {
	Username string
	Password string
	Text1    string
	Text2    string
}

// Result is a successful comparison
type Result struct {
	Similarity       float64
	RemainingCredits int
}

// Gateway authenticates a caller, spends one credit and scores two texts.
// A credit is spent if and only if a similarity is returned.
type Gateway struct {
	auth   *auth.Service
	ledger *ledger.Ledger
	scorer scoring.Scorer
	logger *slog.Logger
}

// New creates a new Gateway
func New(authService *auth.Service, ledger *ledger.Ledger, scorer scoring.Scorer, logger *slog.Logger) *Gateway {
	return &Gateway{
		auth:   authService,
		ledger: ledger,
		scorer: scorer,
		logger: logger,
	}
}

// Compare runs the checks in order and stops at the first failure
func (g *Gateway) Compare(ctx context.Context, req Request) (*Result, error) {
	if req.Username == "" || req.Password == "" || req.Text1 == "" || req.Text2 == "" {
		return nil, model.ErrMissingInput
	}

	ok, err := g.auth.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrWrongPassword
	}

	debited, err := g.ledger.TryDebit(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, model.ErrInsufficientCredits
	}

	similarity, err := g.scorer.Similarity(ctx, req.Text1, req.Text2)
	if err != nil {
		return nil, g.refund(ctx, req.Username, fmt.Errorf("%w: %w", model.ErrScorerFailed, err))
	}

	remaining, err := g.ledger.Balance(ctx, req.Username)
	if err != nil {
		return nil, g.refund(ctx, req.Username, fmt.Errorf("read balance: %w", err))
	}

	g.logger.Info("comparison scored",
		slog.String("username", req.Username),
		slog.Float64("similarity", similarity),
		slog.Int("remaining_credits", remaining),
	)

	return &Result{
		Similarity:       similarity,
		RemainingCredits: remaining,
	}, nil
}

// refund re-credits the debit taken for a comparison that produced no result
func (g *Gateway) refund(ctx context.Context, username string, cause error) error {
	g.logger.Warn("comparison failed, refunding credit",
		slog.String("username", username),
		slog.String("error", cause.Error()),
	)

	// The refund must land even if the caller has gone away
	if _, err := g.ledger.Credit(context.WithoutCancel(ctx), username, 1); err != nil {
		g.logger.Error("credit refund failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return errors.Join(cause, fmt.Errorf("refund credit: %w", err))
	}
	return cause
}
