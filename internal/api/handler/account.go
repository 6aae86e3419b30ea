package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/textcompare/internal/api/apierr"
	"github.com/mcoot/textcompare/internal/api/request"
	"github.com/mcoot/textcompare/internal/api/response"
	"github.com/mcoot/textcompare/internal/middleware"
	"github.com/mcoot/textcompare/internal/model"
	"github.com/mcoot/textcompare/internal/services/auth"
	"github.com/mcoot/textcompare/internal/services/compare"
	"github.com/mcoot/textcompare/internal/services/refill"
)

// AccountHandler handles the signup, compare and refill endpoints
type AccountHandler struct {
	authService    *auth.Service
	compareGateway *compare.Gateway
	refillService  *refill.Service
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service, compareGateway *compare.Gateway, refillService *refill.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		authService:    authService,
		compareGateway: compareGateway,
		refillService:  refillService,
		logger:         logger,
	}
}

// Signup handles POST /signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if err := request.Decode(r.Body, &req); err != nil {
		apierr.WriteError(w, apierr.NewMissingInputError())
		return
	}

	if err := h.authService.Register(r.Context(), req.Username, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, response.SignupResponse{
		StatusCode: apierr.CodeOK,
		Message:    response.MessageRegistered,
	})
}

// Compare handles POST /compare
func (h *AccountHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req request.CompareRequest
	if err := request.Decode(r.Body, &req); err != nil {
		apierr.WriteError(w, apierr.NewMissingInputError())
		return
	}

	result, err := h.compareGateway.Compare(r.Context(), compare.Request{
		Username: req.Username,
		Password: req.Password,
		Text1:    req.Text1,
		Text2:    req.Text2,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, response.CompareResponse{
		StatusCode:      apierr.CodeOK,
		Message:         response.MessageCompared,
		Similarity:      result.Similarity,
		TokensRemaining: result.RemainingCredits,
	})
}

// Refill handles POST /refill
func (h *AccountHandler) Refill(w http.ResponseWriter, r *http.Request) {
	var req request.RefillRequest
	if err := request.Decode(r.Body, &req); err != nil {
		apierr.WriteError(w, apierr.NewMissingInputError())
		return
	}

	amount, err := req.RefillAmount.Int64()
	if err != nil || amount <= 0 || amount > model.MaxCredits {
		apierr.WriteError(w, model.ErrInvalidAmount)
		return
	}

	balance, err := h.refillService.Refill(r.Context(), refill.Request{
		Username:      req.Username,
		AdminPassword: req.Password,
		Amount:        int(amount),
	})
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			err = apierr.New(apierr.CodeUnknownUsername, "Username not present in database. Check spelling.")
		}
		h.writeError(w, r, err)
		return
	}

	response.OK(w, response.RefillResponse{
		StatusCode:    apierr.CodeOK,
		Message:       response.MessageRefilled,
		CurrentTokens: balance,
	})
}

// writeError logs internal failures before writing the protocol error
func (h *AccountHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Code(err) == apierr.CodeInternalError {
		middleware.LoggerFromContext(r.Context(), h.logger).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}
